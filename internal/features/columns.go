package features

// featureColumns is the fixed ordered feature schema. The order is shared by
// training and inference; a trained model persists its copy of the list and
// the predictor refuses to score when the lists diverge.
var featureColumns = []string{
	"player_1_rank", "player_2_rank", "rank_difference",
	"player_1_points", "player_2_points", "points_difference",
	"player_1_sports_mood", "player_2_sports_mood", "sports_mood_difference",
	"player_1_personal_mood", "player_2_personal_mood", "personal_mood_difference",
	"player_1_surface_win_rate", "player_2_surface_win_rate", "surface_advantage",
	"h2h_player_1_wins", "h2h_player_2_wins", "h2h_total_matches",
	"tournament_series_encoded", "surface_encoded", "court_type_encoded", "round_encoded",
	"player_1_last_5_win_rate", "player_2_last_5_win_rate",
}

// Columns returns the feature schema in order. Callers get a copy.
func Columns() []string {
	out := make([]string, len(featureColumns))
	copy(out, featureColumns)
	return out
}

// NumFeatures is the width of every feature vector.
func NumFeatures() int {
	return len(featureColumns)
}

// SameColumns reports whether a persisted column list matches the current
// schema exactly, order included.
func SameColumns(persisted []string) bool {
	if len(persisted) != len(featureColumns) {
		return false
	}
	for i, name := range featureColumns {
		if persisted[i] != name {
			return false
		}
	}
	return true
}
