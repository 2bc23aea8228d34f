package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"solar-roi/internal/api/models"
	"solar-roi/internal/config"
	"solar-roi/internal/logger"
	"solar-roi/internal/model"

	"github.com/gin-gonic/gin"
)

// ProviderHandler serves the provider preset catalogue
type ProviderHandler struct {
	providerDir string
	log         logger.Logger
}

// NewProviderHandler creates a new provider handler
func NewProviderHandler(dir string, log logger.Logger) *ProviderHandler {
	// Convert to absolute path for reliability
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	log = logger.OrNop(log)
	log.Infof("using provider directory: %s", dir)
	return &ProviderHandler{providerDir: dir, log: log}
}

// ProviderDir returns the provider directory path
func (h *ProviderHandler) ProviderDir() string {
	return h.providerDir
}

// ListProviders handles GET /api/v1/providers
func (h *ProviderHandler) ListProviders(c *gin.Context) {
	providers := []models.ProviderInfo{}

	presets, err := config.ListPresets(h.providerDir)
	if err != nil {
		h.log.Warnf("failed to list provider presets in %s: %v", h.providerDir, err)
		c.JSON(http.StatusOK, gin.H{"providers": providers})
		return
	}

	for _, p := range presets {
		name := p.Name
		if name == "" {
			name = p.ID
		}
		providers = append(providers, models.ProviderInfo{
			ID:                p.ID,
			Name:              name,
			DailySupplyCharge: p.DailySupplyCharge,
			ImportRules:       p.ImportRules,
			ExportRules:       p.ExportRules,
			GridCharge:        p.GridCharge.Enabled,
			SpecialConditions: len(p.SpecialConditions),
		})
	}
	h.log.Debugf("returning %d provider presets", len(providers))

	c.JSON(http.StatusOK, gin.H{"providers": providers})
}

// checkPresetRef only admits bare preset ids or file names.
func checkPresetRef(ref string) error {
	bad := ref == "" || filepath.Base(ref) != ref || strings.HasPrefix(ref, ".")
	switch filepath.Ext(ref) {
	case "", ".yaml", ".yml":
	default:
		bad = true
	}
	if bad {
		return fmt.Errorf("%w: provider_file %q must be a preset id", model.ErrInvalidConfiguration, ref)
	}
	return nil
}
