package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ardanlabs/conf"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"taskact/backend/foundation/web"
	"taskact/backend/internal/auth"
	"taskact/backend/internal/commands"
	"taskact/backend/internal/pkg/config"
	"taskact/backend/internal/pkg/repository/postgresql"
	"taskact/backend/internal/router"
	"taskact/backend/internal/service/geocode"
)

var build = "develop"

func main() {
	logger := log.New(os.Stdout, "TASKACT : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	if err := run(logger); err != nil {
		if !errors.Is(err, commands.ErrHelp) {
			logger.Println("main: error:", err)
		}
		os.Exit(1)
	}
}

func run(logger *log.Logger) error {
	var flags struct {
		conf.Version
		Web struct {
			Port      string `conf:"default::8080"`
			MediaPath string `conf:"default:./media"`
		}
		Migrate bool `conf:"default:true,flag:migrate"`
	}
	flags.Version.SVN = build
	flags.Version.Desc = "attendance backend for professional service firms"

	if err := conf.Parse(os.Args[1:], "TASKACT", &flags); err != nil {
		switch {
		case errors.Is(err, conf.ErrHelpWanted):
			usage, err := conf.Usage("TASKACT", &flags)
			if err != nil {
				return errors.Wrap(err, "generating config usage")
			}
			fmt.Println(usage)
			return commands.ErrHelp
		case errors.Is(err, conf.ErrVersionWanted):
			version, err := conf.VersionString("TASKACT", &flags)
			if err != nil {
				return errors.Wrap(err, "generating config version")
			}
			fmt.Println(version)
			return commands.ErrHelp
		}
		return errors.Wrap(err, "parsing config flags")
	}

	cfg, err := config.NewConfig()
	if err != nil {
		return errors.Wrap(err, "reading config.yaml")
	}

	postgresDB := postgresql.NewDB(cfg.DBUsername, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DisableTLS)
	defer postgresDB.Close()

	redisDB := redis.NewClient(&redis.Options{
		Addr: cfg.RedisHost + ":" + cfg.RedisPort,
	})
	defer redisDB.Close()

	if flags.Migrate {
		commands.MigrateUP(postgresDB)
	}

	authenticator, err := auth.New("./private.pem")
	if err != nil {
		return errors.Wrap(err, "constructing authenticator")
	}

	geocoder := geocode.NewClient(cfg.GeocoderUrl)

	app := web.NewApp(web.Config{
		ErrorBotToken: cfg.ErrorBotToken,
		ErrorChatID:   cfg.ErrorChatID,
	})

	logger.Printf("main: api listening on %s", flags.Web.Port)

	return router.NewRouter(
		app,
		postgresDB,
		redisDB,
		geocoder,
		flags.Web.Port,
		authenticator,
		flags.Web.MediaPath,
		cfg.WebOrigins,
	).Init()
}
