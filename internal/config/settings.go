package config

import (
	"os"
	"strconv"
)

// Settings is the resolved configuration used by the application.
type Settings struct {
	DefaultScore int

	UserName string
	Persona  string // empty means the assistant's built-in persona
	Fallback string // empty means the assistant's built-in fallback

	LLMProvider string
	LLMModel    string
	LLMAPIKey   string

	LogLevel string
	LogFile  string

	SpeechScript     string
	SpeechMaxSeconds int

	Medications []MedicationConfig
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Settings {
	return Settings{
		DefaultScore:     1250,
		UserName:         "Grandpa Lin",
		LogLevel:         "info",
		LogFile:          DefaultLogPath(),
		SpeechScript:     "What a lovely day. A gentle breeze drifts through the treetops and sunlight spreads across the grass.",
		SpeechMaxSeconds: 30,
	}
}

// Resolve layers file values and then environment overrides onto the
// defaults.
func Resolve(file FileConfig) Settings {
	return resolve(file, os.Getenv)
}

func resolve(file FileConfig, getenv func(string) string) Settings {
	s := Defaults()

	if v := file.Progression.DefaultScore; v != nil && *v > 0 {
		s.DefaultScore = *v
	}
	setString(&s.UserName, file.Assistant.UserName)
	setString(&s.Persona, file.Assistant.Persona)
	setString(&s.Fallback, file.Assistant.Fallback)
	setString(&s.LLMProvider, file.LLM.Provider)
	setString(&s.LLMModel, file.LLM.Model)
	setString(&s.LLMAPIKey, file.LLM.APIKey)
	setString(&s.LogLevel, file.Log.Level)
	setString(&s.LogFile, file.Log.File)
	setString(&s.SpeechScript, file.Speech.Script)
	if v := file.Speech.MaxSeconds; v != nil && *v > 0 {
		s.SpeechMaxSeconds = *v
	}
	s.Medications = append(s.Medications, file.Medication...)

	if v := getenv("NEUROTRACK_USER_NAME"); v != "" {
		s.UserName = v
	}
	if v := getenv("NEUROTRACK_LOG_LEVEL"); v != "" {
		s.LogLevel = v
	}
	if v := getenv("NEUROTRACK_LOG_FILE"); v != "" {
		s.LogFile = v
	}
	if v := getenv("NEUROTRACK_DEFAULT_SCORE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			s.DefaultScore = n
		}
	}
	return s
}

func setString(dst *string, v *string) {
	if v != nil && *v != "" {
		*dst = *v
	}
}
