package cli

import (
	"context"
	"log/slog"

	"taskman/internal/backend/taskapi"
	"taskman/internal/commands"
	"taskman/internal/config"
	"taskman/internal/session"
	"taskman/internal/store"
)

// HTTPFactory wires the task API client at cfg.APIURL to a session
// persisted in the config directory. The session is the only writer of the
// client's credential.
func HTTPFactory(opts ...taskapi.Option) Factory {
	return func(ctx context.Context, cfg *config.Config, log *slog.Logger) (*commands.Deps, error) {
		clientOpts := append([]taskapi.Option{
			taskapi.WithTimeout(cfg.Timeout),
			taskapi.WithLogger(log),
		}, opts...)
		client, err := taskapi.New(cfg.APIURL, clientOpts...)
		if err != nil {
			return nil, err
		}

		sess := session.New(store.NewFileStore(cfg.Dir), client, session.WithLogger(log))
		return &commands.Deps{
			Session:  sess,
			Tasks:    client,
			Accounts: client,
		}, nil
	}
}
