package config

import "os"

func IsDebug() bool {
	return os.Getenv("CHATMTL_DEBUG") == "1"
}
