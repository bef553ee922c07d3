package services

import (
	"context"
	"errors"
	"testing"

	"beercatalog/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestRunStagesStopsAtFirstFailure(t *testing.T) {
	var ran []string
	record := func(name string, err error) stage {
		return step(name, func(context.Context) error {
			ran = append(ran, name)
			return err
		})
	}
	boom := domain.ValidationError{Msg: "bad"}

	err := runStages(context.Background(), "test", record("a", nil), record("b", boom), record("c", nil))
	assert.Equal(t, boom, err)
	assert.Equal(t, []string{"a", "b"}, ran)
}

func TestRunStagesHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := runStages(ctx, "test",
		step("first", func(context.Context) error {
			calls++
			cancel()
			return nil
		}),
		step("second", func(context.Context) error {
			calls++
			return nil
		}),
	)
	assert.Equal(t, 1, calls)
	assert.True(t, domain.IsUnavailable(err))
	assert.True(t, errors.Is(err, context.Canceled))
}
