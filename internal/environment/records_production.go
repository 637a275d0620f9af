//go:build production

package environment

// DefaultTarget is the target this artifact was built for.
const DefaultTarget = Production

// Production values are substituted at link time, for example:
//
//	go build -tags production -ldflags "\
//	  -X github.com/eugenenazirov/frontend-env/internal/environment.productionAPIServerURL=https://api.example.com \
//	  -X github.com/eugenenazirov/frontend-env/internal/environment.productionCallbackURL=https://app.example.com ..."
//
// An artifact linked without them fails validation on Load.
var (
	productionAPIServerURL string
	productionDomainPrefix string
	productionAudience     string
	productionClientID     string
	productionCallbackURL  string
)

func builtinRecords() map[Target]EnvironmentConfig {
	return map[Target]EnvironmentConfig{
		Production: {
			IsProduction: true,
			APIServerURL: productionAPIServerURL,
			Auth: AuthConfig{
				DomainPrefix: productionDomainPrefix,
				Audience:     productionAudience,
				ClientID:     productionClientID,
				CallbackURL:  productionCallbackURL,
			},
		},
	}
}
