package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/uber-go/tally"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/goleak"
)

func TestNewRootScope(t *testing.T) {
	var scope tally.Scope
	app := fxtest.New(
		t,
		fx.Supply(Context{Environment: EnvDevelopment}),
		fx.Provide(newRootScope),
		fx.Populate(&scope),
	)
	app.RequireStart()

	scope.Counter("starts").Inc(1)
	assert.NotNil(t, scope)

	assert.NoError(t, app.Stop(context.Background()))
}

func TestModule(t *testing.T) {
	assert.NoError(t, fx.ValidateApp(Module, fx.Invoke(func(tally.Scope) {})))
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
