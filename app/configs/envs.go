package configs

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type ENV struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	Port       string

	RedisAddr     string
	RedisPassword string

	AppAuthKey string
	AppEncKey  string
	JWTSecret  string

	MPAccessToken    string
	MPAccessTokenDev string
	PublicBaseURL    string

	ImageKitPrivateKey string
}

func LoadEnv() ENV {

	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: No .env file found ")
	}

	return ENV{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     os.Getenv("DB_PORT"),
		Port:       os.Getenv("APP_PORT"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		AppAuthKey: os.Getenv("APP_AUTH_KEY"),
		AppEncKey:  os.Getenv("APP_ENC_KEY"),
		JWTSecret:  os.Getenv("JWT_SECRET"),

		MPAccessToken:    os.Getenv("MP_ACCESS_TOKEN"),
		MPAccessTokenDev: os.Getenv("MP_ACCESS_TOKEN_DEV"),
		PublicBaseURL:    os.Getenv("PUBLIC_BASE_URL"),

		ImageKitPrivateKey: os.Getenv("IMAGEKIT_PRIVATE_KEY"),
	}

}

// MercadoPagoToken picks the sandbox token outside production, mirroring the
// dev/prod access token split of the checkout environment.
func (e ENV) MercadoPagoToken() string {
	if os.Getenv("APP_ENV") == "production" {
		return e.MPAccessToken
	}
	if e.MPAccessTokenDev != "" {
		return e.MPAccessTokenDev
	}
	return e.MPAccessToken
}

var LoadENV = LoadEnv()
