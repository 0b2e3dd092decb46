package domain

import (
	"time"

	"amfit/coach-app/internal/anthropometry"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Anamnesis is the interview part of an assessment.
type Anamnesis struct {
	PreviousActivity    string   `bson:"previousActivity,omitempty" json:"previousActivity,omitempty"`
	Modalities          string   `bson:"modalities,omitempty" json:"modalities,omitempty"`
	TimeWithoutTraining string   `bson:"timeWithoutTraining,omitempty" json:"timeWithoutTraining,omitempty"`
	WeeklyFrequency     string   `bson:"weeklyFrequency,omitempty" json:"weeklyFrequency,omitempty"`
	HadPersonalTrainer  string   `bson:"hadPersonalTrainer,omitempty" json:"hadPersonalTrainer,omitempty"`
	FitnessLevel        string   `bson:"fitnessLevel,omitempty" json:"fitnessLevel,omitempty"`
	MainGoal            string   `bson:"mainGoal,omitempty" json:"mainGoal,omitempty"`
	BodyFocus           []string `bson:"bodyFocus,omitempty" json:"bodyFocus,omitempty"`
	Motivation          string   `bson:"motivation,omitempty" json:"motivation,omitempty"`
	Dislikes            string   `bson:"dislikes,omitempty" json:"dislikes,omitempty"`
	HealthProblems      []string `bson:"healthProblems,omitempty" json:"healthProblems,omitempty"`
	Surgeries           string   `bson:"surgeries,omitempty" json:"surgeries,omitempty"`
	Medications         string   `bson:"medications,omitempty" json:"medications,omitempty"`
	CurrentPain         string   `bson:"currentPain,omitempty" json:"currentPain,omitempty"`
	Nutrition           string   `bson:"nutrition,omitempty" json:"nutrition,omitempty"`
	SleepHours          string   `bson:"sleepHours,omitempty" json:"sleepHours,omitempty"`
	WaterIntake         string   `bson:"waterIntake,omitempty" json:"waterIntake,omitempty"`
	StressLevel         string   `bson:"stressLevel,omitempty" json:"stressLevel,omitempty"`
	Alcohol             string   `bson:"alcohol,omitempty" json:"alcohol,omitempty"`
	Smoking             string   `bson:"smoking,omitempty" json:"smoking,omitempty"`
}

// ParQ holds the Physical Activity Readiness Questionnaire answers.
type ParQ struct {
	DoctorRestriction string `bson:"doctorRestriction,omitempty" json:"doctorRestriction,omitempty"`
	ChestPain         string `bson:"chestPain,omitempty" json:"chestPain,omitempty"`
	Dizziness         string `bson:"dizziness,omitempty" json:"dizziness,omitempty"`
	BoneProblems      string `bson:"boneProblems,omitempty" json:"boneProblems,omitempty"`
	HeartMedication   string `bson:"heartMedication,omitempty" json:"heartMedication,omitempty"`
	SpecialCare       string `bson:"specialCare,omitempty" json:"specialCare,omitempty"`
}

// Circumferences and bone diameters, all in centimetres.
type Circumferences struct {
	Neck               *float64 `bson:"neck,omitempty" json:"neck,omitempty"`
	Shoulder           *float64 `bson:"shoulder,omitempty" json:"shoulder,omitempty"`
	ChestRelaxed       *float64 `bson:"chestRelaxed,omitempty" json:"chestRelaxed,omitempty"`
	ChestInspired      *float64 `bson:"chestInspired,omitempty" json:"chestInspired,omitempty"`
	Waist              *float64 `bson:"waist,omitempty" json:"waist,omitempty"`
	Abdomen            *float64 `bson:"abdomen,omitempty" json:"abdomen,omitempty"`
	Hip                *float64 `bson:"hip,omitempty" json:"hip,omitempty"`
	RightArmRelaxed    *float64 `bson:"rightArmRelaxed,omitempty" json:"rightArmRelaxed,omitempty"`
	RightArmContracted *float64 `bson:"rightArmContracted,omitempty" json:"rightArmContracted,omitempty"`
	LeftArmRelaxed     *float64 `bson:"leftArmRelaxed,omitempty" json:"leftArmRelaxed,omitempty"`
	LeftArmContracted  *float64 `bson:"leftArmContracted,omitempty" json:"leftArmContracted,omitempty"`
	RightForearm       *float64 `bson:"rightForearm,omitempty" json:"rightForearm,omitempty"`
	LeftForearm        *float64 `bson:"leftForearm,omitempty" json:"leftForearm,omitempty"`
	RightThigh         *float64 `bson:"rightThigh,omitempty" json:"rightThigh,omitempty"`
	LeftThigh          *float64 `bson:"leftThigh,omitempty" json:"leftThigh,omitempty"`
	RightCalf          *float64 `bson:"rightCalf,omitempty" json:"rightCalf,omitempty"`
	LeftCalf           *float64 `bson:"leftCalf,omitempty" json:"leftCalf,omitempty"`
	WristDiameter      *float64 `bson:"wristDiameter,omitempty" json:"wristDiameter,omitempty"`
	BiStyloid          *float64 `bson:"biStyloid,omitempty" json:"biStyloid,omitempty"`
	FemurDiameter      *float64 `bson:"femurDiameter,omitempty" json:"femurDiameter,omitempty"`
}

// Assessment is a physical assessment of one trainee. Records are append-only:
// nothing edits an assessment after it is stored.
type Assessment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrainerID primitive.ObjectID `bson:"trainerId" json:"trainerId"`
	TraineeID primitive.ObjectID `bson:"traineeId" json:"traineeId"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`

	Anamnesis Anamnesis `bson:"anamnesis" json:"anamnesis"`
	ParQ      ParQ      `bson:"parq" json:"parq"`

	WeightKg       float64                    `bson:"weight" json:"weight"`
	HeightCm       float64                    `bson:"height" json:"height"`
	Circumferences Circumferences             `bson:"circumferences" json:"circumferences"`
	Protocol       anthropometry.Protocol     `bson:"protocol,omitempty" json:"protocol,omitempty"`
	Skinfolds      anthropometry.Skinfolds    `bson:"skinfolds" json:"skinfolds"`
	Bioimpedance   anthropometry.Bioimpedance `bson:"bioimpedance" json:"bioimpedance"`
	Notes          string                     `bson:"notes,omitempty" json:"notes,omitempty"`

	// Derived at save time, read-only afterwards.
	BMI               *float64 `bson:"bmi,omitempty" json:"bmi,omitempty"`
	BodyFatPercentage *float64 `bson:"bodyFatPercentage,omitempty" json:"bodyFatPercentage,omitempty"`
	FatMass           *float64 `bson:"fatMass,omitempty" json:"fatMass,omitempty"`
	LeanMass          *float64 `bson:"leanMass,omitempty" json:"leanMass,omitempty"`
}

// AssessmentPhoto stores metadata about a posture/progress photo attached to
// an assessment. The image itself lives in object storage.
type AssessmentPhoto struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AssessmentID primitive.ObjectID `bson:"assessmentId" json:"assessmentId"`
	TraineeID    primitive.ObjectID `bson:"traineeId" json:"traineeId"`
	TrainerID    primitive.ObjectID `bson:"trainerId" json:"trainerId"`
	ObjectKey    string             `bson:"objectKey" json:"-"` // key in the bucket, internal use
	ContentType  string             `bson:"contentType" json:"contentType"`
	UploadedAt   time.Time          `bson:"uploadedAt" json:"uploadedAt"`
}
