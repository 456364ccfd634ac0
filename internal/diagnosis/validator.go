package diagnosis

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/yusufkecer/nyenyak-backend/internal/apperr"
	"github.com/yusufkecer/nyenyak-backend/internal/domain"
)

const (
	CodeMissingField       = "MISSING_FIELD"
	CodeNotNumeric         = "NOT_NUMERIC"
	CodeInvalidLabel       = "INVALID_LABEL"
	CodeDurationExceedsDay = "DURATION_EXCEEDS_DAY"
	CodeNonPositiveValue   = "NON_POSITIVE_VALUE"
	CodeNegativeValue      = "NEGATIVE_VALUE"
	CodeProfileIncomplete  = "PROFILE_INCOMPLETE"
	CodeInvalidID          = "INVALID_ID"

	maxHoursPerDay = 24
)

const (
	FieldWeight                = "weight"
	FieldHeight                = "height"
	FieldSleepDuration         = "sleepDuration"
	FieldQualityOfSleep        = "qualityOfSleep"
	FieldPhysicalActivityLevel = "physicalActivityLevel"
	FieldStressLevel           = "stressLevel"
	FieldBloodPressure         = "bloodPressure"
	FieldHeartRate             = "heartRate"
	FieldDailySteps            = "dailySteps"
)

// fieldOrder is the order presence and type checks run in.
var fieldOrder = []string{
	FieldWeight,
	FieldHeight,
	FieldSleepDuration,
	FieldQualityOfSleep,
	FieldPhysicalActivityLevel,
	FieldStressLevel,
	FieldBloodPressure,
	FieldHeartRate,
	FieldDailySteps,
}

type rangeCheck struct {
	field string
	code  string
	fails func(v float64) bool
	msg   string
}

// rangeChecks run after every field is present and well typed. The first
// failing entry wins.
var rangeChecks = []rangeCheck{
	{FieldSleepDuration, CodeDurationExceedsDay, func(v float64) bool { return v > maxHoursPerDay }, "cannot exceed 24 hours"},
	{FieldPhysicalActivityLevel, CodeDurationExceedsDay, func(v float64) bool { return v > maxHoursPerDay }, "cannot exceed 24 hours"},
	{FieldWeight, CodeNonPositiveValue, func(v float64) bool { return v <= 0 }, "must be greater than 0"},
	{FieldHeight, CodeNonPositiveValue, func(v float64) bool { return v <= 0 }, "must be greater than 0"},
	{FieldSleepDuration, CodeNonPositiveValue, func(v float64) bool { return v <= 0 }, "must be greater than 0"},
	{FieldHeartRate, CodeNonPositiveValue, func(v float64) bool { return v <= 0 }, "must be greater than 0"},
	{FieldPhysicalActivityLevel, CodeNegativeValue, func(v float64) bool { return v < 0 }, "cannot be negative"},
	{FieldDailySteps, CodeNegativeValue, func(v float64) bool { return v < 0 }, "cannot be negative"},
}

// Validate checks a decoded request body and returns the typed input. The
// body should be decoded with json.Decoder.UseNumber so numbers arrive as
// json.Number; numeric strings are accepted as well.
func Validate(raw map[string]any) (domain.DiagnosisInput, error) {
	numbers := make(map[string]float64, len(fieldOrder))
	var bloodPressure string

	for _, field := range fieldOrder {
		v, ok := raw[field]
		if !ok || v == nil {
			return domain.DiagnosisInput{}, apperr.Validation(CodeMissingField, field+" is required")
		}

		if field == FieldBloodPressure {
			s, ok := v.(string)
			if !ok || strings.TrimSpace(s) == "" {
				return domain.DiagnosisInput{}, apperr.Validation(CodeInvalidLabel, field+" must be a non-empty label")
			}
			bloodPressure = strings.TrimSpace(s)
			continue
		}

		n, err := toNumber(v)
		if err != nil {
			return domain.DiagnosisInput{}, apperr.Validation(CodeNotNumeric, field+" must be a number")
		}
		numbers[field] = n
	}

	for _, c := range rangeChecks {
		if c.fails(numbers[c.field]) {
			return domain.DiagnosisInput{}, apperr.Validation(c.code, fmt.Sprintf("%s %s", c.field, c.msg))
		}
	}

	return domain.DiagnosisInput{
		Weight:                numbers[FieldWeight],
		Height:                numbers[FieldHeight],
		SleepDuration:         numbers[FieldSleepDuration],
		QualityOfSleep:        numbers[FieldQualityOfSleep],
		PhysicalActivityLevel: numbers[FieldPhysicalActivityLevel],
		StressLevel:           numbers[FieldStressLevel],
		BloodPressure:         bloodPressure,
		HeartRate:             numbers[FieldHeartRate],
		DailySteps:            numbers[FieldDailySteps],
	}, nil
}

func toNumber(v any) (float64, error) {
	var (
		f   float64
		err error
	)
	switch n := v.(type) {
	case json.Number:
		f, err = n.Float64()
	case float64:
		f = n
	case int:
		f = float64(n)
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(n), 64)
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite value")
	}
	return f, nil
}
