package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/taufwerk/baptizo/core"
)

var writeEnvFunc = godotenv.Write // mockable

// setToken stores the ChurchTools credentials in the environment file the
// configuration loads on startup (config/.env.<env>).
func (cli *commandLine) setToken(baseURL, token string) error {
	envPath := filepath.Join(core.Conf.WorkDir, "config", ".env."+strings.ToLower(core.Conf.Env))

	env, err := godotenv.Read(envPath)
	if err != nil {
		if !os.IsNotExist(errors.Cause(err)) {
			return errors.Wrapf(err, "reading %s", envPath)
		}
		env = map[string]string{}
	}

	env[core.Conf.Env+"_CHURCHTOOLSTOKEN"] = token
	if baseURL != "" {
		env[core.Conf.Env+"_CHURCHTOOLSBASEURL"] = baseURL
	}

	if err := writeEnvFunc(env, envPath); err != nil {
		return errors.Wrapf(err, "writing %s", envPath)
	}
	fmt.Fprintf(cli.out, "token saved to %s\n", envPath)
	return nil
}
