package configs

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var (
	JWTSecret        string
	JWTRefreshSecret string
	MediaRoot        string

	// SMTP (emails de notification)
	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string

	// SMS (plans Silver+)
	SMSProvider   string
	SMSAPIKey     string
	SMSSenderName string
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ Pas de fichier .env, utilisation des variables du système")
		} else {
			log.Println("✅ Fichier .env chargé")
		}
	} else {
		log.Println("🚀 Running in Railway, ENV du système")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	JWTRefreshSecret = GetEnv("JWT_REFRESH_SECRET")
	MediaRoot = GetEnv("MEDIA_ROOT", "./media")

	SMTPHost = GetEnv("SMTP_HOST", "localhost")
	SMTPPort = GetEnv("SMTP_PORT", "587")
	SMTPUser = GetEnv("SMTP_USER")
	SMTPPassword = GetEnv("SMTP_PASSWORD")
	SMTPFrom = GetEnv("SMTP_FROM", "noreply@iltizem.dz")

	SMSProvider = GetEnv("SMS_PROVIDER", "local")
	SMSAPIKey = GetEnv("SMS_API_KEY")
	SMSSenderName = GetEnv("SMS_SENDER_NAME", "iltizem")

	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET n'est pas défini !")
	}
	if JWTRefreshSecret == "" {
		log.Println("❌ JWT_REFRESH_SECRET n'est pas défini !")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}
