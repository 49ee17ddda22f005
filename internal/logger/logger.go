package logger

import (
	"go.uber.org/zap"
)

// New creates a zap logger based on environment, tagged with the binary name.
func New(env, component string) *zap.Logger {
	var (
		l   *zap.Logger
		err error
	)
	if env == "development" {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		l = zap.NewNop()
	}
	return l.With(zap.String("component", component), zap.String("env", env))
}
