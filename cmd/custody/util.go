package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	appconfig "github.com/vulpemventures/custody/internal/app-config"
	"github.com/vulpemventures/custody/internal/config"
	postgresdb "github.com/vulpemventures/custody/internal/infrastructure/storage/db/postgres"
)

const stateFile = "state.json"

var colorRed = string("\033[31m")

func getAppConfig() (*appconfig.AppConfig, error) {
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	dbType := config.GetString(config.DatabaseTypeKey)
	var repoManagerConfig interface{}
	switch dbType {
	case "badger":
		repoManagerConfig = filepath.Join(config.GetDatadir(), config.DbLocation)
	case "postgres":
		repoManagerConfig = postgresdb.DbConfig{
			DbUser:             config.GetString(config.DbUserKey),
			DbPassword:         config.GetString(config.DbPassKey),
			DbHost:             config.GetString(config.DbHostKey),
			DbPort:             config.GetInt(config.DbPortKey),
			DbName:             config.GetString(config.DbNameKey),
			MigrationSourceURL: config.GetString(config.DbMigrationPath),
		}
	}

	cfg := &appconfig.AppConfig{
		Network:           config.GetNetwork(),
		Iterations:        config.GetInt(config.DefaultIterationsKey),
		RepoManagerType:   dbType,
		RepoManagerConfig: repoManagerConfig,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// withSession logs into the selected wallet and runs f. The session is
// closed once f returns.
func withSession(
	f func(ctx context.Context, cfg *appconfig.AppConfig) error,
) error {
	cfg, err := getAppConfig()
	if err != nil {
		return err
	}
	defer cfg.Close()

	walletGuid, err := getWalletGuid()
	if err != nil {
		return err
	}
	if len(mainPassword) <= 0 {
		return fmt.Errorf("missing main password, set --password")
	}

	ctx := context.Background()
	if _, err := cfg.WalletService().Login(ctx, walletGuid, mainPassword); err != nil {
		return err
	}
	return f(ctx, cfg)
}

func getWalletGuid() (string, error) {
	if len(guid) > 0 {
		return guid, nil
	}
	state, err := getState()
	if err != nil {
		return "", err
	}
	walletGuid, ok := state["guid"]
	if !ok || len(walletGuid) <= 0 {
		return "", fmt.Errorf(
			"no wallet selected, set --guid or use 'custody wallet use <guid>'",
		)
	}
	return walletGuid, nil
}

func getState() (map[string]string, error) {
	file, err := os.ReadFile(statePath())
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		return map[string]string{}, nil
	}

	data := map[string]string{}
	if err := json.Unmarshal(file, &data); err != nil {
		return nil, fmt.Errorf("invalid state file: %w", err)
	}
	return data, nil
}

func setState(partialState map[string]string) error {
	state, err := getState()
	if err != nil {
		return err
	}

	for key, value := range partialState {
		state[key] = value
	}
	return writeState(state)
}

func writeState(state map[string]string) error {
	path := statePath()
	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %v", err)
		}
	}

	buf, _ := json.MarshalIndent(state, "", "  ")
	if err := os.WriteFile(path, buf, 0600); err != nil {
		return fmt.Errorf("writing to file: %w", err)
	}
	return nil
}

func statePath() string {
	return filepath.Join(config.GetDatadir(), stateFile)
}

func printJSON(v interface{}) error {
	buf, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal response: %s", err)
	}
	fmt.Println(string(buf))
	return nil
}

func printErr(err error) {
	msg := fmt.Sprintf("%s%s", colorRed, capitalize(err.Error()))
	fmt.Fprintln(os.Stderr, msg)
}

func capitalize(s string) string {
	if len(s) <= 0 {
		return s
	}
	return strings.ToUpper(s[0:1]) + s[1:]
}
