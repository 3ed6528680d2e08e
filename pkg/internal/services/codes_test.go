package services

import (
	"errors"
	"math/rand/v2"
	"strconv"
	"testing"

	"github.com/Z-Wei-1117/survey-app/pkg/internal/models"
	"github.com/Z-Wei-1117/survey-app/pkg/internal/testutil"
	"gorm.io/gorm"
)

func TestSampleCode(t *testing.T) {
	source := rand.New(rand.NewPCG(1, 2))
	lengths := make(map[int]bool)
	for i := 0; i < 20000; i++ {
		code := SampleCode(source.IntN)
		if !IsResultAccessCode(code) {
			t.Fatalf("SampleCode() = %q, not a valid access code", code)
		}
		if _, err := strconv.Atoi(code); err != nil {
			t.Fatalf("SampleCode() = %q, not a number: %v", code, err)
		}
		lengths[len(code)] = true
	}
	for length := 1; length <= MaxCodeLength; length++ {
		if !lengths[length] {
			t.Errorf("SampleCode() never produced a code of length %d", length)
		}
	}
}

func TestSampleCodeBounds(t *testing.T) {
	lowest := SampleCode(func(n int) int { return 0 })
	if lowest != "1" {
		t.Errorf("SampleCode(lowest) = %q, want 1", lowest)
	}
	highest := SampleCode(func(n int) int { return n - 1 })
	if highest != "999999999" {
		t.Errorf("SampleCode(highest) = %q, want 999999999", highest)
	}

	// Length 2 with the smallest value must still be two digits.
	calls := 0
	twoDigits := SampleCode(func(n int) int {
		calls++
		if calls == 1 {
			return 1
		}
		return 0
	})
	if twoDigits != "10" {
		t.Errorf("SampleCode(two digits) = %q, want 10", twoDigits)
	}
}

func TestIsResultAccessCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"1", true},
		{"583920174", true},
		{"", false},
		{"0", false},
		{"0123", false},
		{"1234567890", false},
		{"12a4", false},
		{"-12", false},
	}
	for _, tt := range tests {
		if got := IsResultAccessCode(tt.code); got != tt.want {
			t.Errorf("IsResultAccessCode(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func sequenceSampler(codes ...string) (func() string, *int) {
	calls := 0
	return func() string {
		code := codes[calls%len(codes)]
		calls++
		return code
	}, &calls
}

func insertSurveyWithCode(t *testing.T, db *gorm.DB, code, token string) {
	t.Helper()
	survey := models.Survey{Title: "existing", ShareUUID: token, ResultAccessCode: code}
	if err := db.Create(&survey).Error; err != nil {
		t.Fatalf("failed to insert survey: %v", err)
	}
}

func TestGenerateSkipsTakenCodes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	insertSurveyWithCode(t, db, "42", "token-1")

	sample, calls := sequenceSampler("42", "42", "7")
	generator := &CodeGenerator{MaxAttempts: MaxCodeAttempts, Sample: sample}

	code, err := generator.Generate(db)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if code != "7" {
		t.Errorf("Generate() = %q, want 7", code)
	}
	if *calls != 3 {
		t.Errorf("Generate() sampled %d times, want 3", *calls)
	}
}

func TestGenerateExhausted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	insertSurveyWithCode(t, db, "42", "token-1")

	sample, calls := sequenceSampler("42")
	generator := &CodeGenerator{MaxAttempts: MaxCodeAttempts, Sample: sample}

	if _, err := generator.Generate(db); !errors.Is(err, ErrCodeSpaceExhausted) {
		t.Fatalf("Generate() error = %v, want ErrCodeSpaceExhausted", err)
	}
	if *calls != MaxCodeAttempts {
		t.Errorf("Generate() sampled %d times, want %d", *calls, MaxCodeAttempts)
	}
}
