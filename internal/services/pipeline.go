package services

import (
	"context"

	"beercatalog/internal/domain"
	"beercatalog/internal/utils"

	"go.uber.org/zap"
)

// stage is one named step of a service operation.
type stage struct {
	name string
	run  func(ctx context.Context) error
}

func step(name string, run func(ctx context.Context) error) stage {
	return stage{name: name, run: run}
}

// runStages executes stages in order and stops at the first failure. The
// failing stage's error is returned as is; earlier stages are not undone.
func runStages(ctx context.Context, op string, stages ...stage) error {
	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			err = domain.UnavailableError{Msg: "request cancelled", Err: err}
			logStageFailure(ctx, op, s.name, err)
			return err
		}
		if err := s.run(ctx); err != nil {
			logStageFailure(ctx, op, s.name, err)
			return err
		}
	}
	return nil
}

func logStageFailure(ctx context.Context, op, stageName string, err error) {
	fields := []zap.Field{
		zap.String("op", op),
		zap.String("stage", stageName),
		zap.Error(err),
	}
	if domain.IsUnavailable(err) {
		utils.Logger(ctx).Error("stage failed", fields...)
		return
	}
	utils.Logger(ctx).Info("stage rejected", fields...)
}
