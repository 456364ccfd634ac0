package domain

import "time"

const DiagnosisDateLayout = "02-01-2006"

// Diagnosis is one persisted health assessment. PhysicalActivityLevel is
// stored in minutes; the submitted value is hours.
type Diagnosis struct {
	ID                    string    `json:"id"`
	UID                   string    `json:"uid"`
	Date                  string    `json:"date"`
	CreatedAt             time.Time `json:"createdAt"`
	Name                  string    `json:"name"`
	Gender                string    `json:"gender"`
	Age                   int       `json:"age"`
	Weight                float64   `json:"weight"`
	Height                float64   `json:"height"`
	BMICategory           string    `json:"BMIcategory"`
	SleepDuration         float64   `json:"sleepDuration"`
	QualityOfSleep        float64   `json:"qualityOfSleep"`
	PhysicalActivityLevel float64   `json:"physicalActivityLevel"`
	StressLevel           float64   `json:"stressLevel"`
	BloodPressure         string    `json:"bloodPressure"`
	HeartRate             float64   `json:"heartRate"`
	DailySteps            float64   `json:"dailySteps"`
	SleepDisorder         string    `json:"sleepDisorder"`
	Solution              *string   `json:"solution"`
}

// DiagnosisInput holds health metrics that already passed validation.
type DiagnosisInput struct {
	Weight                float64
	Height                float64
	SleepDuration         float64
	QualityOfSleep        float64
	PhysicalActivityLevel float64
	StressLevel           float64
	BloodPressure         string
	HeartRate             float64
	DailySteps            float64
}

// FeatureVector is the body expected by the prediction service.
type FeatureVector struct {
	Gender                int     `json:"Gender"`
	Age                   int     `json:"Age"`
	SleepDuration         float64 `json:"Sleep_Duration"`
	SleepQuality          float64 `json:"Sleep_Quality"`
	PhysicalActivityLevel float64 `json:"Physical_Activity_Level"`
	StressLevel           float64 `json:"Stress_Level"`
	BMICategory           int     `json:"BMI_Category"`
	HeartRate             float64 `json:"Heart_Rate"`
	DailySteps            float64 `json:"Daily_Steps"`
	BPCategory            int     `json:"BP_Category"`
}

type Prediction struct {
	SleepDisorder string `json:"sleep_disorder"`
}
