package seedmodels

import (
	"bytes"
	"fmt"
	"os"

	"quiz-arena/internal/domain"

	"gopkg.in/yaml.v3"
)

// SeedQuestion is one entry of the YAML question bank.
type SeedQuestion struct {
	Question      string   `yaml:"question"`
	Options       []string `yaml:"options"`
	CorrectOption int      `yaml:"correct_option"`
}

// SeedAdmin describes an optional administrator created alongside the questions.
type SeedAdmin struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// SeedFile is the top-level layout of configs/seed_data/questions.yaml.
type SeedFile struct {
	Admin     *SeedAdmin     `yaml:"admin,omitempty"`
	Questions []SeedQuestion `yaml:"questions"`
}

// Load reads and decodes a seed file.
func Load(path string) (*SeedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes YAML seed data. Unknown keys are rejected so typos surface early.
func Parse(raw []byte) (*SeedFile, error) {
	var f SeedFile
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode seed data: %w", err)
	}
	return &f, nil
}

// ToDomain converts the entry and validates it like an admin-created question.
func (q SeedQuestion) ToDomain() (*domain.Question, error) {
	if len(q.Options) != domain.OptionCount {
		return nil, fmt.Errorf("question %q: expected %d options, got %d", q.Question, domain.OptionCount, len(q.Options))
	}
	var opts [domain.OptionCount]string
	copy(opts[:], q.Options)
	dq := domain.NewQuestion(q.Question, opts, q.CorrectOption)
	if errs := dq.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("question %q: %w", q.Question, errs)
	}
	return dq, nil
}
