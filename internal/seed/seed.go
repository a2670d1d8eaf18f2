// Package seed loads a question catalog from YAML into an empty database.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"quizhub-backend/internal/logger"
	"quizhub-backend/internal/models"
	"quizhub-backend/internal/repository"
)

//go:embed questions.yaml
var sampleCatalog string

type catalogFile struct {
	Questions []struct {
		Text    string `yaml:"text"`
		Options []struct {
			Text    string `yaml:"text"`
			Correct bool   `yaml:"correct"`
		} `yaml:"options"`
	} `yaml:"questions"`
}

// SampleCatalog returns the built-in sample questions.
func SampleCatalog() ([]models.Question, error) {
	return LoadCatalog(strings.NewReader(sampleCatalog))
}

func LoadCatalog(r io.Reader) ([]models.Question, error) {
	var file catalogFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	questions := make([]models.Question, 0, len(file.Questions))
	for i, q := range file.Questions {
		if strings.TrimSpace(q.Text) == "" {
			return nil, fmt.Errorf("question %d: text is required", i+1)
		}
		if len(q.Options) == 0 {
			return nil, fmt.Errorf("question %d: at least one option is required", i+1)
		}

		question := models.Question{Text: q.Text}
		for _, o := range q.Options {
			correct := o.Correct
			question.Options = append(question.Options, models.QuestionOption{Text: o.Text, IsCorrect: &correct})
		}
		questions = append(questions, question)
	}
	return questions, nil
}

// Run inserts questions in one transaction unless the catalog already has
// rows. It returns how many questions were created.
func Run(ctx context.Context, store *repository.Store, questions []models.Question, log *logger.Logger) (int, error) {
	existing, err := store.Questions.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	if existing > 0 {
		log.Info("question catalog already seeded", "questions", existing)
		return 0, nil
	}

	err = store.WithTx(ctx, func(tx *repository.Store) error {
		for i := range questions {
			if err := tx.Questions.Create(ctx, &questions[i]); err != nil {
				return fmt.Errorf("create question %q: %w", questions[i].Text, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Info("question catalog seeded", "questions", len(questions))
	return len(questions), nil
}
