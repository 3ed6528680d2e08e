package services

import (
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/Z-Wei-1117/survey-app/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	MaxCodeAttempts = 20
	MaxCodeLength   = 9
)

// CodeGenerator produces result access codes unused by any survey.
type CodeGenerator struct {
	MaxAttempts int
	Sample      func() string
}

func NewCodeGenerator() *CodeGenerator {
	return &CodeGenerator{
		MaxAttempts: MaxCodeAttempts,
		Sample: func() string {
			return SampleCode(rand.IntN)
		},
	}
}

// SampleCode picks a length between 1 and MaxCodeLength, then a number of exactly
// that many digits. intn must return a uniform value in [0, n).
func SampleCode(intn func(n int) int) string {
	length := intn(MaxCodeLength) + 1
	floor := 1
	for i := 1; i < length; i++ {
		floor *= 10
	}
	ceil := floor*10 - 1
	if length == 1 {
		floor = 1
	}
	return strconv.Itoa(floor + intn(ceil-floor+1))
}

// IsResultAccessCode reports whether code could have been produced by SampleCode.
func IsResultAccessCode(code string) bool {
	if len(code) == 0 || len(code) > MaxCodeLength || code[0] == '0' {
		return false
	}
	for _, ch := range code {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}

// Generate samples until it finds a code no survey uses. Pass the transaction that
// will insert the survey so the check and the insert share a connection.
func (v *CodeGenerator) Generate(tx *gorm.DB) (string, error) {
	for attempt := 1; attempt <= v.MaxAttempts; attempt++ {
		code := v.Sample()

		var count int64
		if err := tx.Model(&models.Survey{}).
			Where("result_access_code = ?", code).
			Count(&count).Error; err != nil {
			return "", fmt.Errorf("unable to check result access code: %w", err)
		}
		if count == 0 {
			return code, nil
		}

		log.Debug().Int("attempt", attempt).Msg("Sampled result access code is taken, retrying...")
	}

	log.Warn().Int("attempts", v.MaxAttempts).Msg("Unable to find a free result access code.")
	return "", ErrCodeSpaceExhausted
}
