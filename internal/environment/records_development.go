//go:build !production

package environment

// DefaultTarget is the target this artifact was built for.
const DefaultTarget = Development

func builtinRecords() map[Target]EnvironmentConfig {
	return map[Target]EnvironmentConfig{
		Development: {
			IsProduction: false,
			APIServerURL: "http://127.0.0.1:5000",
			Auth: AuthConfig{
				DomainPrefix: "coffeeplace-app.us",
				Audience:     "coffeeplace",
				ClientID:     "gtg3brYpp6D1X8QbIQEm47l1bjouRK5o",
				CallbackURL:  "http://localhost:8100",
			},
		},
	}
}
