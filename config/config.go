package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Database Database
	Scoring  Scoring
	Exam     Exam
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// Scoring holds the tunables of the grading and recommendation logic.
type Scoring struct {
	// HintPenalty is the score deduction applied per hint consulted
	// before an answer was submitted.
	HintPenalty float64
	// RecommendationLimit is how many weak areas are surfaced as
	// next-practice recommendations.
	RecommendationLimit int
}

// SectionPlan fixes the question count and time limit of one timed
// section of a mock-exam paper.
type SectionPlan struct {
	Subject       string
	QuestionCount int
	TimeLimitSecs int
}

// Exam describes the GL Assessment paper layout: every paper carries the
// same four sections in canonical order.
type Exam struct {
	PapersPerExam int
	Sections      []SectionPlan
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("HINT_PENALTY", 0.5)
	viper.SetDefault("RECOMMENDATION_LIMIT", 3)
	viper.SetDefault("EXAM_PAPERS", 2)
	viper.SetDefault("EXAM_ENGLISH_QUESTIONS", 20)
	viper.SetDefault("EXAM_ENGLISH_SECONDS", 900)
	viper.SetDefault("EXAM_MATHS_QUESTIONS", 30)
	viper.SetDefault("EXAM_MATHS_SECONDS", 1140)
	viper.SetDefault("EXAM_NVR_QUESTIONS", 20)
	viper.SetDefault("EXAM_NVR_SECONDS", 480)
	viper.SetDefault("EXAM_VR_QUESTIONS", 20)
	viper.SetDefault("EXAM_VR_SECONDS", 480)

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.Scoring.HintPenalty = viper.GetFloat64("HINT_PENALTY")
	config.Scoring.RecommendationLimit = viper.GetInt("RECOMMENDATION_LIMIT")

	config.Exam.PapersPerExam = viper.GetInt("EXAM_PAPERS")
	config.Exam.Sections = []SectionPlan{
		{Subject: "english", QuestionCount: viper.GetInt("EXAM_ENGLISH_QUESTIONS"), TimeLimitSecs: viper.GetInt("EXAM_ENGLISH_SECONDS")},
		{Subject: "maths", QuestionCount: viper.GetInt("EXAM_MATHS_QUESTIONS"), TimeLimitSecs: viper.GetInt("EXAM_MATHS_SECONDS")},
		{Subject: "non_verbal_reasoning", QuestionCount: viper.GetInt("EXAM_NVR_QUESTIONS"), TimeLimitSecs: viper.GetInt("EXAM_NVR_SECONDS")},
		{Subject: "verbal_reasoning", QuestionCount: viper.GetInt("EXAM_VR_QUESTIONS"), TimeLimitSecs: viper.GetInt("EXAM_VR_SECONDS")},
	}

	log.Info().Str("port", config.Server.Port).Msg("Config loaded")
	return &config, nil
}
