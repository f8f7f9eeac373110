package config_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/janisto/task-manager-api/internal/platform/config"
)

var managedEnv = []string{
	"PORT",
	"SERVER_PORT",
	"SERVER_ENVIRONMENT",
	"SERVER_SHUTDOWN_TIMEOUT",
	"LOGGING_LEVEL",
}

var _ = Describe("Config", func() {
	var (
		tempDir string
		opts    config.Options
		saved   map[string]string
	)

	writeFile := func(name, content string) {
		Expect(os.WriteFile(filepath.Join(tempDir, name), []byte(content), 0o600)).To(Succeed())
	}

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "config-test-*")
		Expect(err).NotTo(HaveOccurred())

		saved = map[string]string{}
		for _, key := range managedEnv {
			if v, ok := os.LookupEnv(key); ok {
				saved[key] = v
			}
			Expect(os.Unsetenv(key)).To(Succeed())
		}

		opts = config.Options{
			ConfigPaths: []string{tempDir},
			EnvFiles:    []string{filepath.Join(tempDir, ".env")},
		}
	})

	AfterEach(func() {
		for _, key := range managedEnv {
			_ = os.Unsetenv(key)
			if v, ok := saved[key]; ok {
				_ = os.Setenv(key, v)
			}
		}
		_ = os.RemoveAll(tempDir)
	})

	Describe("Load", func() {
		Context("with no files and no environment", func() {
			It("uses defaults", func() {
				cfg, err := config.Load(opts)
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Server.Port).To(Equal("8080"))
				Expect(cfg.Server.Environment).To(Equal(config.EnvDev))
				Expect(cfg.Server.ShutdownTimeout).To(Equal(10 * time.Second))
				Expect(cfg.Logging.Level).To(Equal(config.LogLevelInfo))
				Expect(cfg.Addr()).To(Equal(":8080"))
			})
		})

		Context("with a config file", func() {
			BeforeEach(func() {
				writeFile("config.yaml", `
server:
  port: "9000"
  environment: "staging"
  shutdown_timeout: "30s"
logging:
  level: "debug"
`)
			})

			It("reads the file", func() {
				cfg, err := config.Load(opts)
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Server.Port).To(Equal("9000"))
				Expect(cfg.Server.Environment).To(Equal(config.EnvStaging))
				Expect(cfg.Server.ShutdownTimeout).To(Equal(30 * time.Second))
				Expect(cfg.Logging.Level).To(Equal(config.LogLevelDebug))
			})

			It("lets the environment override the file", func() {
				Expect(os.Setenv("PORT", "3000")).To(Succeed())
				Expect(os.Setenv("LOGGING_LEVEL", "warn")).To(Succeed())

				cfg, err := config.Load(opts)
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Server.Port).To(Equal("3000"))
				Expect(cfg.Logging.Level).To(Equal(config.LogLevelWarn))
			})
		})

		Context("with a toml config file", func() {
			It("reads the file", func() {
				writeFile("config.toml", "[server]\nport = \"7070\"\n")

				cfg, err := config.Load(opts)
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Server.Port).To(Equal("7070"))
			})
		})

		Context("with environment variables", func() {
			It("prefers PORT over SERVER_PORT", func() {
				Expect(os.Setenv("PORT", "3000")).To(Succeed())
				Expect(os.Setenv("SERVER_PORT", "4000")).To(Succeed())

				cfg, err := config.Load(opts)
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Server.Port).To(Equal("3000"))
			})

			It("falls back to SERVER_PORT", func() {
				Expect(os.Setenv("SERVER_PORT", "4000")).To(Succeed())

				cfg, err := config.Load(opts)
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Server.Port).To(Equal("4000"))
			})

			It("ignores an empty PORT", func() {
				Expect(os.Setenv("PORT", "")).To(Succeed())
				Expect(os.Setenv("SERVER_PORT", "4000")).To(Succeed())

				cfg, err := config.Load(opts)
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Server.Port).To(Equal("4000"))
			})

			It("ranks PORT over SERVER_PORT over the config file", func() {
				writeFile("config.yaml", "server:\n  port: \"9000\"\n")
				Expect(os.Setenv("SERVER_PORT", "4000")).To(Succeed())

				cfg, err := config.Load(opts)
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Server.Port).To(Equal("4000"))

				Expect(os.Setenv("PORT", "3000")).To(Succeed())
				cfg, err = config.Load(opts)
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Server.Port).To(Equal("3000"))
			})

			It("parses durations", func() {
				Expect(os.Setenv("SERVER_SHUTDOWN_TIMEOUT", "2m")).To(Succeed())

				cfg, err := config.Load(opts)
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Server.ShutdownTimeout).To(Equal(2 * time.Minute))
			})
		})

		Context("with a .env file", func() {
			BeforeEach(func() {
				writeFile(".env", "PORT=5050\nSERVER_ENVIRONMENT=prod\n")
			})

			It("loads variables from it", func() {
				cfg, err := config.Load(opts)
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Server.Port).To(Equal("5050"))
				Expect(cfg.Server.Environment).To(Equal(config.EnvProd))
			})

			It("does not override variables already set", func() {
				Expect(os.Setenv("PORT", "6060")).To(Succeed())

				cfg, err := config.Load(opts)
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Server.Port).To(Equal("6060"))
			})
		})

		Context("with invalid values", func() {
			It("rejects a non-numeric port", func() {
				Expect(os.Setenv("PORT", "http")).To(Succeed())
				_, err := config.Load(opts)
				Expect(err).To(HaveOccurred())
			})

			It("rejects an out of range port", func() {
				Expect(os.Setenv("PORT", "70000")).To(Succeed())
				_, err := config.Load(opts)
				Expect(err).To(HaveOccurred())
			})

			It("rejects an unknown environment", func() {
				Expect(os.Setenv("SERVER_ENVIRONMENT", "qa")).To(Succeed())
				_, err := config.Load(opts)
				Expect(err).To(HaveOccurred())
			})

			It("rejects an unknown log level", func() {
				Expect(os.Setenv("LOGGING_LEVEL", "verbose")).To(Succeed())
				_, err := config.Load(opts)
				Expect(err).To(HaveOccurred())
			})

			It("rejects a too short shutdown timeout", func() {
				Expect(os.Setenv("SERVER_SHUTDOWN_TIMEOUT", "10ms")).To(Succeed())
				_, err := config.Load(opts)
				Expect(err).To(HaveOccurred())
			})

			It("rejects a malformed config file", func() {
				writeFile("config.yaml", "server: [unclosed")
				_, err := config.Load(opts)
				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("Validate", func() {
		It("accepts a complete configuration", func() {
			cfg := config.Config{
				Server:  config.ServerConfig{Port: "8080", Environment: config.EnvProd, ShutdownTimeout: 5 * time.Second},
				Logging: config.LoggingConfig{Level: config.LogLevelError},
			}
			Expect(cfg.Validate()).To(Succeed())
		})

		It("rejects an empty configuration", func() {
			Expect(config.Config{}.Validate()).NotTo(Succeed())
		})
	})
})
