//go:build ecs_track_location

package types

// TrackLocation reports whether caller locations are recorded for spawns, despawns and changes.
const TrackLocation = true
