package cli

import (
	"io"

	"duckup/internal/config"
	"duckup/internal/logx"
	"duckup/internal/paths"
	"duckup/internal/toolchain"
)

// setupService resolves directories, loads the optional config file, and
// builds the toolchain service with a per-command log file. The returned
// closer may be nil when the log file could not be opened; the command
// proceeds without file logging in that case.
func setupService(command string) (*toolchain.Service, io.Closer, error) {
	dirs, err := paths.Resolve()
	if err != nil {
		return nil, nil, err
	}
	if err := dirs.EnsureBaseDirs(); err != nil {
		return nil, nil, err
	}

	cfgPath, err := config.Locate(dirs.DataDir)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}

	svc := toolchain.New(dirs, cfg)

	logger, closer, err := logx.New(dirs, command)
	if err == nil {
		svc.Logger = logger
	}
	return svc, closer, nil
}
