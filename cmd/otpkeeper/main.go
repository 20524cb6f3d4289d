// Package main runs the OTPKeeper shell: it loads the configuration, asks
// for the password, unlocks the store file and hands over to the command
// loop. The store is written back on every exit path.
package main

import (
	"cmp"
	"errors"
	"fmt"
	"os"

	"github.com/atinyakov/OTPKeeper/internal/client/shell"
	"github.com/atinyakov/OTPKeeper/internal/client/storage"
	"github.com/atinyakov/OTPKeeper/internal/config"
	"github.com/atinyakov/OTPKeeper/internal/logger"
	"github.com/atinyakov/OTPKeeper/internal/repository"
	"github.com/atinyakov/OTPKeeper/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	os.Exit(run())
}

func run() (code int) {
	// Parse command-line, config file and environment configuration.
	options, err := config.Parse()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if options.Version {
		fmt.Printf("OTPKeeper\nVersion: %s\nBuild Date: %s\n", cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))
		return 0
	}

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	zapLogger := log.Log.With(zap.String("build", cmp.Or(version, "N/A")))

	path, err := options.ResolveStorePath()
	if err != nil {
		zapLogger.Error("cannot resolve store path", zap.Error(err))
		return 1
	}
	username, err := options.Username()
	if err != nil {
		zapLogger.Error("cannot determine user", zap.Error(err))
		return 1
	}
	zapLogger.Debug("starting", zap.String("path", path))

	sh := shell.New(os.Stdin, os.Stdout, zapLogger)
	sh.AutoSave = options.AutoSave

	password, err := sh.ReadPassword()
	if err != nil {
		if !errors.Is(err, shell.ErrEmptyPassword) {
			zapLogger.Error("cannot read password", zap.Error(err))
		}
		return 1
	}

	sess, pending, err := service.Open(repository.NewFileRepository(path), service.Options{
		Username: username,
		Password: password,
		Version:  storage.ProtocolVersion,
		Log:      zapLogger,
	})
	clear(password)
	if err != nil {
		if errors.Is(err, storage.ErrAuthentication) {
			fmt.Fprintln(os.Stderr, "Invalid phrase")
		} else {
			zapLogger.Error("cannot open store", zap.Error(err))
		}
		return 1
	}

	defer func() {
		if err := sess.Commit(pending); err != nil {
			fmt.Fprintln(os.Stderr, "Cannot write store file")
			code = 1
		}
	}()

	pending = pending.Merge(sh.Run(sess))
	return 0
}

var (
	_ shell.Session           = (*service.Session)(nil)
	_ service.StoreRepository = (*repository.FileRepository)(nil)
)
