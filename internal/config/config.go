package config // package config loads application configuration from environment variables

import (
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"strings"
	"time"
	_ "time/tzdata" // restaurant zones resolve on minimal images

	"github.com/joho/godotenv"   // optional .env file for local development
	"github.com/sirupsen/logrus" // fatal reporting for missing configuration
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations and costs.
type Config struct {
	Env           string   // application environment (e.g. "dev", "prod")
	Port          string   // HTTP port to listen on
	DBUser        string   // database username
	DBPass        string   // database password (optional)
	DBHost        string   // database host address
	DBPort        string   // database port number
	DBName        string   // database name
	DBTLSCA       string   // path to the CA bundle for TLS database connections (optional)
	JWTSecret     string   // secret used to sign JWTs
	AccessTTLMin  int      // access token time-to-live in minutes
	BcryptCost    int      // bcrypt cost for password hashing
	Timezone      string   // IANA zone the restaurant operates in; defines "today"
	LogLevel      string   // logrus level name
	LogFormat     string   // "json" or "text"
	CORSOrigins   []string // allowed browser origins
	TableSyncCron string   // cron spec of the daily table status job
	RabbitURL     string   // AMQP broker URL; empty disables event publishing
	ResetURLBase  string   // link prefix placed in password reset emails
	Notify        NotifyConfig
}

// NotifyConfig carries the credentials of the outbound notification
// providers.  Empty credentials disable the matching channel.
type NotifyConfig struct {
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioFromNumber  string
}

// EmailEnabled reports whether SendGrid is configured.
func (n NotifyConfig) EmailEnabled() bool {
	return n.SendGridAPIKey != "" && n.SendGridFromEmail != ""
}

// SMSEnabled reports whether Twilio is configured.
func (n NotifyConfig) SMSEnabled() bool {
	return n.TwilioAccountSID != "" && n.TwilioAuthToken != "" && n.TwilioFromNumber != ""
}

// Load reads configuration values from environment variables and returns a
// Config.  A .env file in the working directory is applied first when
// present.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	_ = godotenv.Load() // a missing .env file is not an error
	return Config{
		Env:           must("APP_ENV"),                  // environment (dev/test/prod)
		Port:          must("APP_PORT"),                 // port to bind the HTTP server
		DBUser:        must("DB_USER"),                  // database user
		DBPass:        os.Getenv("DB_PASS"),             // database password (empty allowed)
		DBHost:        must("DB_HOST"),                  // database host
		DBPort:        must("DB_PORT"),                  // database port
		DBName:        must("DB_NAME"),                  // database name
		DBTLSCA:       os.Getenv("DB_TLS_CA"),           // managed MySQL providers require TLS
		JWTSecret:     must("JWT_SECRET"),               // secret used for signing JWTs
		AccessTTLMin:  mustInt("ACCESS_TOKEN_TTL_MIN"),  // TTL for access tokens in minutes
		BcryptCost:    mustInt("BCRYPT_COST"),           // bcrypt cost factor
		Timezone:      getenv("APP_TIMEZONE", "UTC"),    // restaurant local time zone
		LogLevel:      getenv("LOG_LEVEL", "info"),      // logrus level
		LogFormat:     getenv("LOG_FORMAT", "text"),     // log formatter
		CORSOrigins:   splitList(getenv("CORS_ORIGINS", "*")),
		TableSyncCron: getenv("TABLE_SYNC_CRON", "5 0 * * *"),
		RabbitURL:     rabbitURL(),
		ResetURLBase:  getenv("RESET_URL_BASE", "http://localhost:4200/recuperar-password"),
		Notify: NotifyConfig{
			SendGridAPIKey:    os.Getenv("SENDGRID_API_KEY"),
			SendGridFromEmail: os.Getenv("SENDGRID_FROM_EMAIL"),
			SendGridFromName:  getenv("SENDGRID_FROM_NAME", "Reservas"),
			TwilioAccountSID:  os.Getenv("TWILIO_ACCOUNT_SID"),
			TwilioAuthToken:   os.Getenv("TWILIO_AUTH_TOKEN"),
			TwilioFromNumber:  os.Getenv("TWILIO_FROM_NUMBER"),
		},
	}
}

// Location resolves Timezone, falling back to UTC for unknown zones.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		logrus.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		logrus.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func rabbitURL() string {
	if v := os.Getenv("RABBITMQ_URL"); v != "" {
		return v
	}
	return os.Getenv("AMQP_URL")
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
