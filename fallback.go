package wallgeom

// FallbackNotification is the structured record emitted when a pipeline
// stage abandons its primary algorithm for a simplified alternative. The
// engine only emits these; how (and whether) they are surfaced to a user
// belongs entirely to an external subscriber.
type FallbackNotification struct {
	Operation             string
	OriginalError         string
	FallbackMethod        string
	QualityImpact         float64 // in [0, 1]; 0 = no impact
	UserGuidance          []string
	CanRetry              bool
	AlternativeApproaches []string
}

// EdgeCaseHandler routes detected edge cases to simplified strategies so
// a usable result is always produced. It accumulates notifications for
// the caller to collect after the run.
type EdgeCaseHandler struct {
	notifications []FallbackNotification
}

// Notifications returns the fallbacks taken so far, in order.
func (h *EdgeCaseHandler) Notifications() []FallbackNotification {
	return append([]FallbackNotification(nil), h.notifications...)
}

// Reset clears accumulated notifications.
func (h *EdgeCaseHandler) Reset() {
	h.notifications = nil
}

// notify records a fallback and logs it at warn level.
func (h *EdgeCaseHandler) notify(n FallbackNotification) {
	h.notifications = append(h.notifications, n)
	Logger().Warn("fallback applied",
		"operation", n.Operation,
		"method", n.FallbackMethod,
		"qualityImpact", n.QualityImpact)
}

// JoinOverride returns the join type a detected edge case forces for a
// wall, and whether an override applies. Near-parallel participants and
// thickness-dominated segments cannot take a stable miter; both degrade
// to bevel-like handling.
func (h *EdgeCaseHandler) JoinOverride(ec EdgeCase, requested JoinType) (JoinType, bool) {
	switch ec.Kind {
	case EdgeNearParallel:
		if requested == JoinMiter {
			h.notify(FallbackNotification{
				Operation:      "offset_join",
				OriginalError:  "near-parallel baselines give no stable miter apex",
				FallbackMethod: "bevel join",
				QualityImpact:  0.15,
				UserGuidance: []string{
					"separate the wall baselines or merge them into one wall",
				},
				CanRetry:              true,
				AlternativeApproaches: []string{"round join", "manual junction geometry"},
			})
			return JoinBevel, true
		}
	case EdgeThicknessRatio:
		if requested == JoinMiter {
			h.notify(FallbackNotification{
				Operation:      "offset_join",
				OriginalError:  "wall thickness exceeds adjacent segment length",
				FallbackMethod: "bevel join",
				QualityImpact:  0.2,
				UserGuidance: []string{
					"lengthen the short segment or reduce the wall thickness",
				},
				CanRetry:              true,
				AlternativeApproaches: []string{"round join"},
			})
			return JoinBevel, true
		}
	}
	return requested, false
}

// RecordOffsetFallback translates an offset-stage fallback into a
// notification.
func (h *EdgeCaseHandler) RecordOffsetFallback(wallID string, warnings []string) {
	h.notify(FallbackNotification{
		Operation:      "offset",
		OriginalError:  firstOr(warnings, "miter construction failed"),
		FallbackMethod: "bevel join",
		QualityImpact:  0.1,
		UserGuidance: []string{
			"wall " + wallID + " was offset with beveled corners",
		},
		CanRetry:              true,
		AlternativeApproaches: []string{"round join", "reduce miter limit"},
	})
}

// RecordBooleanFallback translates a boolean-stage degradation into a
// notification.
func (h *EdgeCaseHandler) RecordBooleanFallback(operation string, warnings []string) {
	h.notify(FallbackNotification{
		Operation:      operation,
		OriginalError:  firstOr(warnings, "clipping failed at base tolerance"),
		FallbackMethod: "coarser tolerance tier",
		QualityImpact:  0.1,
		UserGuidance: []string{
			"geometry was combined at reduced precision",
		},
		CanRetry:              false,
		AlternativeApproaches: []string{"simplify the wall baselines near the junction"},
	})
}

func firstOr(list []string, fallback string) string {
	if len(list) > 0 {
		return list[0]
	}
	return fallback
}
