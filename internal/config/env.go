package config

import "github.com/joho/godotenv"

// LoadEnv loads variables from a .env file in the working directory, or from
// the given files. Variables already set in the environment win.
func LoadEnv(filenames ...string) error {
	return godotenv.Load(filenames...)
}
