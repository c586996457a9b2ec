package main

import (
	"fmt"
	"os"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/Blaqadonis/azaman/action"
	"github.com/Blaqadonis/azaman/checkpoint"
	"github.com/Blaqadonis/azaman/config"
	"github.com/Blaqadonis/azaman/logging"
	"github.com/Blaqadonis/azaman/model"
	anthropicmodel "github.com/Blaqadonis/azaman/model/anthropic"
	openaimodel "github.com/Blaqadonis/azaman/model/openai"
	"github.com/Blaqadonis/azaman/router"
	"github.com/Blaqadonis/azaman/summarizer"
)

// runtime wires the configured store, model, actions and router together
// for one CLI invocation.
type runtime struct {
	cfg    *config.Config
	logger logging.Logger
	store  checkpoint.Store
	router *router.Router
}

func newRuntime(cfg *config.Config) (*runtime, error) {
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if err != nil {
		return nil, err
	}

	store, err := checkpoint.NewSQLiteStore(cfg.DataPath, func(o *checkpoint.SQLiteStoreOptions) {
		o.Logger = logger
	})
	if err != nil {
		return nil, err
	}

	m, err := buildModel(cfg)
	if err != nil {
		store.Close()
		return nil, err
	}

	registry := action.NewRegistry(func(o *action.RegistryOptions) { o.Logger = logger })
	registry.Register(action.NewSetUsername())
	registry.Register(action.NewBudget())
	registry.Register(action.NewLogExpense(cfg.ExpenseTolerance))
	registry.Register(action.NewMathTool())

	sum := summarizer.New(m, func(o *summarizer.Options) {
		o.Threshold = cfg.Summarize.Threshold
		o.Keep = cfg.Summarize.Keep
		o.Logger = logger
	})

	r := router.New(store, m, registry, func(o *router.Options) {
		o.MaxHops = cfg.MaxHops
		o.ModelTimeout = cfg.Model.Timeout.Std()
		o.Summarizer = sum
		o.Logger = logger
	})

	return &runtime{cfg: cfg, logger: logger, store: store, router: r}, nil
}

func (rt *runtime) Close() error { return rt.store.Close() }

// buildModel selects the provider from configuration. API keys come from
// the environment via the provider SDKs.
func buildModel(cfg *config.Config) (model.Model, error) {
	switch cfg.Model.Provider {
	case "anthropic":
		return anthropicmodel.NewModel(func(o *anthropicmodel.Options) {
			if cfg.Model.Name != "" {
				o.Model = anthropicsdk.Model(cfg.Model.Name)
			}
		}), nil
	case "openai":
		return openaimodel.NewModel(func(o *openaimodel.Options) {
			if cfg.Model.Name != "" {
				o.Model = cfg.Model.Name
			}
		}), nil
	case "mock":
		return model.NewMockModel("mock", "mock"), nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Model.Provider)
	}
}

// openStore opens just the checkpoint store, for commands that never talk
// to a model.
func openStore(cfg *config.Config) (checkpoint.Store, error) {
	return checkpoint.NewSQLiteStore(cfg.DataPath)
}
