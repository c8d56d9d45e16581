package traffic

import (
	"context"
	"crypto/rand"
	"math/big"
	"strconv"

	"bannerd/pkg/logger"
	"github.com/google/uuid"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	weightTierDivisor  = 8
	localBannerDivisor = 8
)

// Constants for weight tiers.
const (
	caseStandardA = 0
	caseStandardB = 1
	caseStandardC = 2
	caseBoostedA  = 3
	caseBoostedB  = 4
	caseFeatured  = 5
	casePremium   = 6
	caseTakeover  = 7
)

// Weights per tier. Standard banners dominate the catalog; takeovers
// are rare and heavy.
const (
	weightStandard = 1
	weightBoosted  = 2
	weightFeatured = 5
	weightPremium  = 8
	weightTakeover = 10
)

// campaignThemes feed generated banner titles.
var campaignThemes = []string{ //nolint:gochecknoglobals // static word list
	"Spring Sale",
	"Summer Clearance",
	"Back to School",
	"Holiday Deals",
	"Flash Sale",
	"New Arrivals",
	"Weekend Special",
	"Member Exclusive",
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// generateBannerSpecs creates the catalog the run drives traffic against.
func generateBannerSpecs(ctx context.Context, config *Config) []BannerSpec {
	logger.Get().Info(ctx, "generating banner specs", logger.Int("numBanners", config.NumBanners))

	specs := make([]BannerSpec, config.NumBanners)
	for i := range specs {
		specs[i] = generateSingleSpec(i)
	}

	logger.Get().Info(ctx, "generated banner specs", logger.Int("count", len(specs)))
	return specs
}

// generateSingleSpec creates one banner spec with a tiered weight.
func generateSingleSpec(index int) BannerSpec {
	creative := uuid.New().String()

	themeIdx, _ := rand.Int(rand.Reader, big.NewInt(int64(len(campaignThemes))))
	title := campaignThemes[themeIdx.Int64()] + " #" + strconv.Itoa(index+1)

	localNum, _ := rand.Int(rand.Reader, big.NewInt(localBannerDivisor))

	return BannerSpec{
		ImageURL: "https://cdn.example.com/creatives/" + creative + ".png",
		ClickURL: "https://example.com/campaigns/" + creative,
		Title:    title,
		Weight:   generateTieredWeight(),
		IsLocal:  localNum.Int64() == 0,
	}
}

// generateTieredWeight draws a weight from the tier distribution.
func generateTieredWeight() int {
	tier, _ := rand.Int(rand.Reader, big.NewInt(weightTierDivisor))
	switch tier.Int64() {
	case caseStandardA, caseStandardB, caseStandardC:
		// Standard banners - most common
		return weightStandard
	case caseBoostedA, caseBoostedB:
		// Boosted banners
		return weightBoosted
	case caseFeatured:
		// Featured placement
		return weightFeatured
	case casePremium:
		// Premium placement
		return weightPremium
	case caseTakeover:
		// Takeover placement - rare
		return weightTakeover
	default:
		return weightStandard
	}
}
