package config

import "os"

func IsDebug() bool {
	return os.Getenv("TWIN_DEBUG") == "1"
}
