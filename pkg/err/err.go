package errprocess

import (
	"errors"
	"fmt"

	"github.com/AsemAbuOthman/Forsah-sub000/pkg/logger"

	"go.uber.org/zap"
)

// Set set err info
func Set(errMsg string) error {
	logger.Log.Error(errMsg)
	return errors.New(errMsg)
}

// Wrap log and wrap err with msg, nil stays nil
func Wrap(msg string, err error) error {
	if err == nil {
		return nil
	}
	logger.Log.Error(msg, zap.Error(err))
	return fmt.Errorf("%s: %w", msg, err)
}
