package tools

import (
	"log/slog"

	"github.com/custodia-labs/campus-assist/internal/core/domain"
)

// ApplySmartCorrection moves colloquial asset names the model placed in an
// identifier field into the name field.
//
// An identifier field whose value the resolver recognizes is always cleared.
// Its value becomes the name only when no name was given; an explicit name is
// never overwritten. Applying the correction twice yields the same query.
func ApplySmartCorrection(q domain.AssetQuery, resolver *SynonymResolver, logger *slog.Logger) domain.AssetQuery {
	if logger == nil {
		logger = slog.Default()
	}

	if q.AssetID != "" && resolver.Known(q.AssetID) {
		if q.AssetName == "" {
			logger.Info("smart correction moved asset_id to asset_name", "value", q.AssetID)
			q.AssetName = q.AssetID
		} else {
			logger.Warn("smart correction conflict: asset_id looks like a name but asset_name is set, discarding",
				"asset_id", q.AssetID, "asset_name", q.AssetName)
		}
		q.AssetID = ""
	}

	if q.IdentificationNum != "" && resolver.Known(q.IdentificationNum) {
		if q.AssetName == "" {
			logger.Info("smart correction moved identification_num to asset_name", "value", q.IdentificationNum)
			q.AssetName = q.IdentificationNum
		} else {
			logger.Warn("smart correction conflict: identification_num looks like a name but asset_name is set, discarding",
				"identification_num", q.IdentificationNum, "asset_name", q.AssetName)
		}
		q.IdentificationNum = ""
	}

	return q
}
