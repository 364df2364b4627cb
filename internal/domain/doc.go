// Package domain models flood risk assessment for low-lying urban sites.
//
// # Evidence Sources
//
// Each monitoring cycle combines three independent inputs:
//
//	Rainfall:  intensity in mm/hr from the OpenWeatherMap "rain.1h" field, or a
//	           manually supplied / simulated value when no live reading exists.
//	Terrain:   per-site elevation in site-local units (not meters). Only the
//	           relative ordering and the fixed risk constants are meaningful.
//	Camera:    a fixed-camera frame classified by [vision.Verifier] into
//	           NO_FEED, SAFE, WARNING or CRITICAL with depth and occlusion.
//
// A free-text distress channel (2G SMS gateway) overrides all of them.
//
// # Terrain Risk
//
//	base        = (230 - elevation) * 2
//	rain_impact = rain * 2.0
//	score       = min(base + rain_impact, 200)
//
// No floor is applied: high ground with no rain yields a negative score. Bands
// used for operator displays:
//
//	score > 140  high
//	score > 90   elevated
//	otherwise    normal
//
// # System State
//
// The aggregator is a flat, ordered rule table. The first matching rule wins:
//
//  1. distress signal          CRITICAL
//  2. vision CRITICAL          CRITICAL
//  3. vision WARNING           WARNING
//  4. rainfall > 80 mm/hr      PREDICTED
//  5. otherwise                SAFE
//
// NO_FEED is neither WARNING nor CRITICAL and falls through to the rain tier.
// There is no memory between cycles; see [Evaluate].
//
// # Provenance
//
// A rainfall reading is tagged LIVE, FALLBACK, SIMULATED or ERROR. Provenance
// is informational only and never changes the risk formula.
package domain
