package compensation

import (
	"time"

	"go-payroll/internal/attendance"
	"go-payroll/internal/employmenttype"
	"go-payroll/internal/holiday"
	"go-payroll/internal/settings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	sixty         = decimal.NewFromInt(60)
	minutesPerDay = decimal.NewFromInt(8 * 60)
	one           = decimal.NewFromInt(1)
)

// ComputeInput bundles everything one daily computation reads. Attendance,
// Holiday and Existing are nil when no such row exists for the day.
type ComputeInput struct {
	EmployeeID uuid.UUID
	Date       time.Time
	DailyRate  decimal.Decimal
	Rules      employmenttype.EmploymentType
	Attendance *attendance.Attendance
	Holiday    *holiday.Holiday
	Settings   settings.CalculationSettings
	// OnPaidLeave marks a day covered by an approved non-UNPAID leave;
	// it is paid as a full present day when no attendance times exist.
	OnPaidLeave bool
	Existing    *Compensation
}

// ComputeDaily derives one day's pay from attendance and the employment
// type's rules. Malformed or missing times become an absence, never an
// error; the only error is an employment type with no schedule entry for
// the weekday, which callers report per employee.
func ComputeDaily(in ComputeInput) (Compensation, error) {
	if in.Existing != nil && in.Existing.ManualOverride {
		return *in.Existing, nil
	}

	window, err := employmenttype.ResolveSchedule(in.Rules, in.Date)
	if err != nil {
		return Compensation{}, err
	}

	comp := Compensation{
		EmployeeID:  in.EmployeeID,
		Date:        in.Date,
		DayType:     DayTypeRegular,
		ComputeMode: ComputeModeComputed,
	}
	if window.IsRestDay {
		comp.DayType = DayTypeRest
	}

	if !window.RequiresTimeTracking {
		computeBinaryDay(in, window, &comp)
	} else {
		computeTrackedDay(in, window, &comp)
	}

	comp.GrossPay = comp.BasicPay.
		Add(comp.OvertimePay).
		Add(comp.HolidayBonus).
		Add(comp.NightDiffPay).
		Sub(comp.LateDeduction).
		Sub(comp.UndertimeDeduction)
	comp.NetPay = comp.GrossPay.Sub(comp.Deductions)
	return comp, nil
}

// computeBinaryDay handles employment types without time tracking:
// presence is the sentinel pair, pay is the flat daily rate.
func computeBinaryDay(in ComputeInput, window employmenttype.ScheduleWindow, comp *Compensation) {
	present := in.Attendance != nil && in.Attendance.IsPresent()

	if present || in.OnPaidLeave {
		comp.BasicPay = in.DailyRate
		markHolidayDayType(in, comp)
		if present {
			applyHolidayBonus(in, comp, true)
		}
		return
	}

	if !window.IsRestDay {
		comp.Absence = true
	}
	applyHolidayBonus(in, comp, false)
}

func computeTrackedDay(in ComputeInput, window employmenttype.ScheduleWindow, comp *Compensation) {
	var timeIn, timeOut string
	if in.Attendance != nil {
		timeIn = in.Attendance.TimeIn
		timeOut = in.Attendance.TimeOut
	}

	actualIn, errIn := employmenttype.ParseTimeOnDate(in.Date, timeIn)
	actualOut, errOut := employmenttype.ParseTimeOnDate(in.Date, timeOut)

	if errIn != nil || errOut != nil {
		if in.OnPaidLeave {
			comp.BasicPay = in.DailyRate
			markHolidayDayType(in, comp)
			return
		}
		if !window.IsRestDay {
			comp.Absence = true
		}
		applyHolidayBonus(in, comp, false)
		return
	}

	// A time-out at or before the time-in means the shift crossed
	// midnight; roll it to the next day.
	if !actualOut.After(actualIn) {
		actualOut = actualOut.AddDate(0, 0, 1)
	}

	workedMinutes := int64(actualOut.Sub(actualIn).Minutes()) - int64(in.Rules.UnpaidBreakMinutes)
	if workedMinutes < 0 {
		workedMinutes = 0
	}
	comp.HoursWorked = decimal.NewFromInt(workedMinutes).Div(sixty)

	if !window.IsRestDay {
		applyWindowMath(in, window, comp, actualIn, actualOut)
	}

	nightMinutes := nightOverlapMinutes(actualIn, actualOut, in.Date, in.Rules.NightWindowStart, in.Rules.NightWindowEnd)
	if nightMinutes > 0 {
		comp.NightDiffHours = decimal.NewFromInt(nightMinutes).Div(sixty)
		comp.NightDiffPay = in.DailyRate.
			Mul(decimal.NewFromInt(nightMinutes)).
			Mul(in.Rules.NightDiffMultiplier).
			Div(minutesPerDay)
	}

	if in.Rules.HoursProportional {
		comp.BasicPay = in.DailyRate.Mul(decimal.NewFromInt(workedMinutes)).Div(minutesPerDay)
	} else {
		comp.BasicPay = in.DailyRate
	}

	applyHolidayBonus(in, comp, true)
}

// applyWindowMath compares the actual interval against the scheduled one
// for lateness, undertime and overtime. Grace is subtracted from the raw
// minutes per the deduction policy, not used as an all-or-nothing gate.
// Amounts multiply before the single terminal division so exact inputs
// stay exact.
func applyWindowMath(in ComputeInput, window employmenttype.ScheduleWindow, comp *Compensation, actualIn, actualOut time.Time) {
	schedIn, errIn := employmenttype.ParseTimeOnDate(in.Date, window.TimeIn)
	schedOut, errOut := employmenttype.ParseTimeOnDate(in.Date, window.TimeOut)
	if errIn != nil || errOut != nil {
		return
	}
	if !schedOut.After(schedIn) {
		schedOut = schedOut.AddDate(0, 0, 1)
	}

	grace := int64(in.Rules.GracePeriodMinutes)

	late := int64(actualIn.Sub(schedIn).Minutes()) - grace
	if late > 0 {
		comp.LateMinutes = int(late)
		comp.LateDeduction = in.DailyRate.Mul(decimal.NewFromInt(late)).Div(minutesPerDay)
	}

	undertime := int64(schedOut.Sub(actualOut).Minutes()) - grace
	if undertime > 0 {
		comp.UndertimeMinutes = int(undertime)
		comp.UndertimeDeduction = in.DailyRate.Mul(decimal.NewFromInt(undertime)).Div(minutesPerDay)
	}

	overtime := int64(actualOut.Sub(schedOut).Minutes()) - grace
	if overtime < 0 {
		overtime = 0
	}
	if threshold := int64(in.Rules.OvertimeThresholdMinutes); threshold > 0 && overtime < threshold {
		overtime = 0
	}
	if cap := int64(in.Rules.OvertimeCapMinutes); cap > 0 && overtime > cap {
		overtime = cap
	}
	if overtime > 0 {
		comp.OvertimeMinutes = int(overtime)
		comp.OvertimePay = in.DailyRate.
			Mul(decimal.NewFromInt(overtime)).
			Mul(in.Rules.OvertimeMultiplier).
			Div(minutesPerDay)
	}
}

// nightOverlapMinutes measures how much of the worked interval falls in
// the night window. The window is checked anchored on the previous day
// as well, so a 22:00-06:00 window catches both a shift running past
// midnight and a graveyard shift logged from 00:00.
func nightOverlapMinutes(workStart, workEnd, date time.Time, windowStart, windowEnd string) int64 {
	var total int64
	for _, anchor := range []time.Time{date.AddDate(0, 0, -1), date} {
		ws, errS := employmenttype.ParseTimeOnDate(anchor, windowStart)
		we, errE := employmenttype.ParseTimeOnDate(anchor, windowEnd)
		if errS != nil || errE != nil {
			return 0
		}
		if !we.After(ws) {
			we = we.AddDate(0, 0, 1)
		}
		total += overlapMinutes(workStart, workEnd, ws, we)
	}
	return total
}

func overlapMinutes(aStart, aEnd, bStart, bEnd time.Time) int64 {
	start := aStart
	if bStart.After(start) {
		start = bStart
	}
	end := aEnd
	if bEnd.Before(end) {
		end = bEnd
	}
	if !end.After(start) {
		return 0
	}
	return int64(end.Sub(start).Minutes())
}

func markHolidayDayType(in ComputeInput, comp *Compensation) {
	if in.Holiday != nil {
		comp.DayType = DayTypeHoliday
	}
}

// applyHolidayBonus pays dailyRate x (m-1) on top of regular pay for a
// worked holiday, or dailyRate x m for a regular holiday the employee was
// entitled to sit out. The settings multiplier wins over the Holiday
// row's stored one, and the chosen source is recorded on the result.
func applyHolidayBonus(in ComputeInput, comp *Compensation, worked bool) {
	if in.Holiday == nil {
		return
	}
	comp.DayType = DayTypeHoliday

	multiplier := in.Settings.HolidayMultiplierFor(in.Holiday.Type)
	source := MultiplierSourceSettings
	if multiplier.Sign() <= 0 {
		multiplier = in.Holiday.Multiplier
		source = MultiplierSourceHoliday
	}

	if worked {
		comp.HolidayBonus = in.DailyRate.Mul(multiplier.Sub(one))
		comp.HolidayMultiplierSource = source
		return
	}

	// Unworked holidays only carry pay for the REGULAR kind; a special
	// non-working day follows no-work-no-pay.
	if in.Holiday.Type == holiday.TypeRegular {
		comp.Absence = false
		comp.HolidayBonus = in.DailyRate.Mul(multiplier)
		comp.HolidayMultiplierSource = source
	}
}
