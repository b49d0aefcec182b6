// Package logging builds the zap logger shared by all SpookyMart binaries.
package logging

import (
	"go.uber.org/zap"

	"github.com/djglaser/spookymart-ecommerce/internal/config"
)

// New returns a JSON production logger, or a human-readable development
// logger outside production.
func New(environment string) (*zap.Logger, error) {
	if config.Production(environment) {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
