package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/quitcoach/client/internal/action"
	"github.com/quitcoach/client/internal/apiclient"
	"github.com/quitcoach/client/internal/config"
	"github.com/quitcoach/client/internal/db"
	"github.com/quitcoach/client/internal/logging"
	"github.com/quitcoach/client/internal/model"
	"github.com/quitcoach/client/internal/offer"
	"github.com/quitcoach/client/internal/repo"
	"github.com/quitcoach/client/internal/store"
	"go.uber.org/zap"
)

type options struct {
	email    string
	password string
	name     string
	coachID  int64
	typeID   int64
	quantity int
	image    string
}

func main() {
	// env vars override .env
	_ = godotenv.Load(".env")

	command := flag.String("command", "init", "init, types, coaches, offerable, followups, request, login, login-coach, signup, signup-coach, check, logout")
	var opts options
	flag.StringVar(&opts.email, "email", "", "Account email")
	flag.StringVar(&opts.password, "password", "", "Account password")
	flag.StringVar(&opts.name, "name", "", "Display name for signup")
	flag.Int64Var(&opts.coachID, "coach", 0, "Coach id for request")
	flag.Int64Var(&opts.typeID, "type", 0, "Consumption type id for signup")
	flag.IntVar(&opts.quantity, "quantity", 0, "Initial consumption for signup")
	flag.StringVar(&opts.image, "image", "", "Profile image file for signup-coach")
	showMetrics := flag.Bool("metrics", false, "Log API call metrics when the command finishes")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.DevMode)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.TokenDSN, logger)
	if err != nil {
		logger.Fatal("failed to open token store", zap.Error(err))
	}
	defer database.Close()

	registry := prometheus.NewRegistry()
	api, err := apiclient.New(apiclient.Config{
		BaseURL:        cfg.APIBaseURL,
		ImageUploadURL: cfg.ImageUploadURL,
		UploadPreset:   cfg.UploadPreset,
		Timeout:        cfg.HTTPTimeout,
		Registerer:     registry,
	})
	if err != nil {
		logger.Fatal("failed to create API client", zap.Error(err))
	}

	actions := action.New(action.Deps{
		API:    api,
		Store:  store.New(),
		Tokens: repo.NewTokenRepo(database),
		Logger: logger,
	})
	submitter := offer.NewSubmitter(actions, logger, nil)

	out, err := run(ctx, *command, opts, actions, submitter)
	if *showMetrics {
		logCallMetrics(logger, registry)
	}
	if err != nil {
		logger.Error("command failed", zap.String("command", *command), zap.Error(err))
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		logger.Error("failed to write output", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, command string, opts options, actions *action.Actions, submitter *offer.Submitter) (any, error) {
	switch command {
	case "init":
		if err := actions.Initialize(ctx); err != nil {
			return nil, err
		}
		state := actions.Store().Read()
		return map[string]any{
			"authenticated":     state.Session.IsAuthenticated,
			"role":              state.Session.Role,
			"smokers":           len(state.Smokers),
			"coaches":           len(state.Coaches),
			"consumption_types": len(state.ConsumptionTypes),
			"requests":          len(state.Requests),
		}, nil

	case "types":
		return actions.GetConsumptionTypes(ctx)

	case "coaches":
		return actions.GetCoaches(ctx)

	case "offerable":
		if err := actions.Initialize(ctx); err != nil {
			return nil, err
		}
		state := actions.Store().Read()
		if state.Session.Role != model.RoleSmoker {
			return nil, offer.ErrNotAuthenticated
		}
		return offer.Offerable(state, state.Session.UserID), nil

	case "followups":
		session, err := smokerSession(ctx, actions)
		if err != nil {
			return nil, err
		}
		return actions.GetFollowUps(ctx, session.UserID)

	case "request":
		if opts.coachID == 0 {
			return nil, errors.New("-coach is required")
		}
		session, err := smokerSession(ctx, actions)
		if err != nil {
			return nil, err
		}
		return submitter.RequestCoach(ctx, session.UserID, opts.coachID)

	case "login":
		return actions.LoginSmoker(ctx, model.Credentials{Email: opts.email, Password: opts.password})

	case "login-coach":
		return actions.LoginCoach(ctx, model.CoachCredentials{Email: opts.email, Password: opts.password})

	case "signup":
		data := model.SmokerSignup{
			User:     model.User{Email: opts.email, Password: opts.password, Name: optional(opts.name)},
			Quantity: opts.quantity,
		}
		if opts.typeID != 0 {
			data.ConsumptionTypeID = &opts.typeID
		}
		return actions.SignupSmoker(ctx, data)

	case "signup-coach":
		if opts.image == "" {
			return nil, errors.New("-image is required")
		}
		f, err := os.Open(opts.image)
		if err != nil {
			return nil, fmt.Errorf("open image: %w", err)
		}
		defer f.Close()
		return actions.SignupCoach(ctx, model.CoachProfile{
			Email:    opts.email,
			Password: opts.password,
			Name:     optional(opts.name),
		}, f.Name(), f)

	case "check":
		if _, err := actions.RestoreSession(ctx); err != nil {
			return nil, err
		}
		ok, err := actions.CheckSession(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]bool{"valid": ok}, nil

	case "logout":
		if err := actions.Logout(ctx); err != nil {
			return nil, err
		}
		return map[string]bool{"logged_out": true}, nil
	}

	return nil, fmt.Errorf("unknown command %q", command)
}

// logCallMetrics writes one log line per API call series
func logCallMetrics(logger *zap.Logger, registry *prometheus.Registry) {
	families, err := registry.Gather()
	if err != nil {
		logger.Warn("failed to gather metrics", zap.Error(err))
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			fields := []zap.Field{zap.String("metric", mf.GetName())}
			for _, lp := range m.GetLabel() {
				fields = append(fields, zap.String(lp.GetName(), lp.GetValue()))
			}
			if h := m.GetHistogram(); h != nil {
				fields = append(fields, zap.Uint64("count", h.GetSampleCount()), zap.Float64("sum_seconds", h.GetSampleSum()))
			} else {
				fields = append(fields, zap.Float64("value", m.GetCounter().GetValue()))
			}
			logger.Info("api call metrics", fields...)
		}
	}
}

func smokerSession(ctx context.Context, actions *action.Actions) (model.AuthSession, error) {
	session, err := actions.RestoreSession(ctx)
	if err != nil {
		return session, err
	}
	if session.Role != model.RoleSmoker {
		return session, offer.ErrNotAuthenticated
	}
	return session, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
