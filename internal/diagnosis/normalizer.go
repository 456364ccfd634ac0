package diagnosis

import (
	"strings"

	"github.com/yusufkecer/nyenyak-backend/internal/domain"
)

const (
	BMINormal     = "Normal"
	BMIOverweight = "Overweight"
	BMIObese      = "Obese"
)

// CalculateBMI expects weight in kilograms and height in centimeters.
func CalculateBMI(weightKg, heightCm float64) float64 {
	m := heightCm / 100
	return weightKg / (m * m)
}

func BMICategory(bmi float64) string {
	switch {
	case bmi < 25:
		return BMINormal
	case bmi < 30:
		return BMIOverweight
	default:
		return BMIObese
	}
}

// EncodeBMICategory follows the label encoding the model was trained with,
// which is not ordinal.
func EncodeBMICategory(category string) int {
	switch category {
	case BMIOverweight:
		return 2
	case BMIObese:
		return 1
	default:
		return 0
	}
}

// EncodeSleepQuality maps the 1-10 scale onto the model's 0-5 scale.
func EncodeSleepQuality(v float64) float64 {
	switch {
	case v < 4:
		return 0
	case v > 9:
		return 5
	default:
		return v - 4
	}
}

// EncodeStressLevel maps the 1-10 scale onto the model's 0-5 scale.
func EncodeStressLevel(v float64) float64 {
	switch {
	case v < 3:
		return 0
	case v > 8:
		return 5
	default:
		return v - 3
	}
}

func EncodeBloodPressure(label string) int {
	switch strings.TrimSpace(label) {
	case "Normal":
		return 1
	case "Stage 1":
		return 2
	case "Stage 2":
		return 3
	default:
		return 0
	}
}

func EncodeGender(gender string) int {
	if gender == "Male" {
		return 1
	}
	return 0
}

func HoursToMinutes(h float64) float64 {
	return h * 60
}

// BuildFeatures derives the classifier input. Activity level is sent in
// hours.
func BuildFeatures(in domain.DiagnosisInput, gender string, age int) (domain.FeatureVector, string) {
	category := BMICategory(CalculateBMI(in.Weight, in.Height))
	return domain.FeatureVector{
		Gender:                EncodeGender(gender),
		Age:                   age,
		SleepDuration:         in.SleepDuration,
		SleepQuality:          EncodeSleepQuality(in.QualityOfSleep),
		PhysicalActivityLevel: in.PhysicalActivityLevel,
		StressLevel:           EncodeStressLevel(in.StressLevel),
		BMICategory:           EncodeBMICategory(category),
		HeartRate:             in.HeartRate,
		DailySteps:            in.DailySteps,
		BPCategory:            EncodeBloodPressure(in.BloodPressure),
	}, category
}
