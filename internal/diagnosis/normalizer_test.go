package diagnosis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yusufkecer/nyenyak-backend/internal/domain"
)

func TestBMICategoryBoundaries(t *testing.T) {
	assert.Equal(t, BMINormal, BMICategory(24.9))
	assert.Equal(t, BMIOverweight, BMICategory(25.0))
	assert.Equal(t, BMIOverweight, BMICategory(29.9))
	assert.Equal(t, BMIObese, BMICategory(30.0))
	assert.Equal(t, BMIObese, BMICategory(41))
}

func TestCalculateBMI(t *testing.T) {
	assert.InDelta(t, 22.857, CalculateBMI(70, 175), 0.001)
	assert.InDelta(t, 25.0, CalculateBMI(100, 200), 1e-9)
}

func TestEncodeBMICategory(t *testing.T) {
	assert.Equal(t, 0, EncodeBMICategory(BMINormal))
	assert.Equal(t, 2, EncodeBMICategory(BMIOverweight))
	assert.Equal(t, 1, EncodeBMICategory(BMIObese))
}

func TestEncodeSleepQuality(t *testing.T) {
	cases := map[float64]float64{1: 0, 3: 0, 4: 0, 6: 2, 9: 5, 10: 5}
	for in, want := range cases {
		assert.Equal(t, want, EncodeSleepQuality(in), "quality %v", in)
	}
}

func TestEncodeStressLevel(t *testing.T) {
	cases := map[float64]float64{1: 0, 2: 0, 3: 0, 5: 2, 8: 5, 9: 5, 10: 5}
	for in, want := range cases {
		assert.Equal(t, want, EncodeStressLevel(in), "stress %v", in)
	}
}

func TestEncodeBloodPressure(t *testing.T) {
	assert.Equal(t, 1, EncodeBloodPressure("Normal"))
	assert.Equal(t, 2, EncodeBloodPressure("Stage 1"))
	assert.Equal(t, 3, EncodeBloodPressure("Stage 2"))
	assert.Equal(t, 0, EncodeBloodPressure("unknown"))
	assert.Equal(t, 0, EncodeBloodPressure("normal"))
}

func TestEncodeGender(t *testing.T) {
	assert.Equal(t, 1, EncodeGender("Male"))
	assert.Equal(t, 0, EncodeGender("Female"))
	assert.Equal(t, 0, EncodeGender(""))
}

func TestBuildFeaturesSendsActivityInHours(t *testing.T) {
	in := domain.DiagnosisInput{
		Weight:                90,
		Height:                170,
		SleepDuration:         6.5,
		QualityOfSleep:        7,
		PhysicalActivityLevel: 1.5,
		StressLevel:           6,
		BloodPressure:         "Stage 1",
		HeartRate:             72,
		DailySteps:            8000,
	}

	fv, category := BuildFeatures(in, "Male", 31)

	assert.Equal(t, BMIObese, category)
	assert.Equal(t, domain.FeatureVector{
		Gender:                1,
		Age:                   31,
		SleepDuration:         6.5,
		SleepQuality:          3,
		PhysicalActivityLevel: 1.5,
		StressLevel:           3,
		BMICategory:           1,
		HeartRate:             72,
		DailySteps:            8000,
		BPCategory:            2,
	}, fv)
}
