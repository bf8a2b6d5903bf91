package environment_variables

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
)

type EnvironmentVariable struct {
	HTTP_PORT                string
	LOG_LEVEL                string
	DB_POSTGRESQL_WRITE_DSN  string
	DB_POSTGRESQL_READ1_DSN  string
	JWT_SECRET               []byte
	ENCRYPTION_KEY           string
	OPENROUTER_BASE_URL      string
	OPENROUTER_API_KEY       string
	TITLE_MODEL              string
	SYSTEM_PROMPT            string
	UPSTREAM_TIMEOUT_SECONDS int
	CACHE_TYPE               string
	REDIS_URL                string
	REDIS_PASSWORD           string
	REDIS_DB                 string
	ALLOWED_CORS_HOSTS       []string
	ALLOW_GUEST              bool
}

func (ev *EnvironmentVariable) LoadFromEnv() {
	ev.LoadFromLookup(os.LookupEnv)
}

// LoadFromLookup fills every field whose name matches a key known to lookup.
// Unset keys keep their current value.
func (ev *EnvironmentVariable) LoadFromLookup(lookup func(string) (string, bool)) {
	v := reflect.ValueOf(ev).Elem()
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		envKey := field.Name
		envValue, ok := lookup(envKey)
		if !ok || envValue == "" {
			continue
		}
		fv := v.Field(i)
		switch fv.Kind() {
		case reflect.String:
			fv.SetString(envValue)
		case reflect.Bool:
			b, err := strconv.ParseBool(envValue)
			if err != nil {
				fmt.Printf("Invalid SYSENV %s: %v\n", envKey, err)
				continue
			}
			fv.SetBool(b)
		case reflect.Int:
			n, err := strconv.Atoi(envValue)
			if err != nil {
				fmt.Printf("Invalid SYSENV %s: %v\n", envKey, err)
				continue
			}
			fv.SetInt(int64(n))
		case reflect.Slice:
			switch fv.Type().Elem().Kind() {
			case reflect.Uint8:
				fv.SetBytes([]byte(envValue))
			case reflect.String:
				parts := make([]string, 0)
				for _, p := range strings.Split(envValue, ",") {
					if p = strings.TrimSpace(p); p != "" {
						parts = append(parts, p)
					}
				}
				fv.Set(reflect.ValueOf(parts))
			}
		}
	}
}

func Defaults() EnvironmentVariable {
	return EnvironmentVariable{
		HTTP_PORT:           "8080",
		LOG_LEVEL:           "info",
		OPENROUTER_BASE_URL: "https://openrouter.ai/api/v1",
		TITLE_MODEL:         "openai/gpt-4o-mini",
		ALLOW_GUEST:         true,
	}
}

// Singleton
var EnvironmentVariables = Defaults()
