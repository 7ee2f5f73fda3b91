package store

import (
	"context"
	"encoding/json"
	"fmt"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS players (
	id BIGSERIAL PRIMARY KEY,
	name TEXT UNIQUE NOT NULL,
	country TEXT,
	current_rank INT,
	current_points INT,
	is_active BOOLEAN NOT NULL DEFAULT true,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS tournaments (
	id BIGSERIAL PRIMARY KEY,
	name TEXT UNIQUE NOT NULL,
	series TEXT,
	is_active BOOLEAN NOT NULL DEFAULT true
);

CREATE TABLE IF NOT EXISTS surfaces (
	id BIGSERIAL PRIMARY KEY,
	name TEXT UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS court_types (
	id BIGSERIAL PRIMARY KEY,
	name TEXT UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS rounds (
	id BIGSERIAL PRIMARY KEY,
	name TEXT UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS matches (
	id BIGSERIAL PRIMARY KEY,
	tournament_id BIGINT NOT NULL REFERENCES tournaments(id),
	date DATE NOT NULL,
	round_id BIGINT REFERENCES rounds(id),
	court_type_id BIGINT REFERENCES court_types(id),
	surface_id BIGINT REFERENCES surfaces(id),
	best_of INT,
	player_1_id BIGINT NOT NULL REFERENCES players(id),
	player_2_id BIGINT NOT NULL REFERENCES players(id),
	winner_id BIGINT REFERENCES players(id),
	rank_1 INT,
	rank_2 INT,
	pts_1 INT,
	pts_2 INT,
	odd_1 DOUBLE PRECISION,
	odd_2 DOUBLE PRECISION,
	score TEXT,
	total_sets INT,
	total_games INT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	CHECK (player_1_id <> player_2_id)
);
CREATE INDEX IF NOT EXISTS idx_matches_player_date ON matches (player_1_id, player_2_id, date DESC);
CREATE INDEX IF NOT EXISTS idx_matches_date ON matches (date);
CREATE INDEX IF NOT EXISTS idx_matches_surface ON matches (surface_id);

CREATE TABLE IF NOT EXISTS player_stats (
	player_id BIGINT PRIMARY KEY REFERENCES players(id),
	sports_mood_score DOUBLE PRECISION NOT NULL DEFAULT 0,
	personal_mood_score DOUBLE PRECISION NOT NULL DEFAULT 0,
	last_10_matches_wins INT NOT NULL DEFAULT 0,
	last_10_matches_losses INT NOT NULL DEFAULT 0,
	last_10_matches_details JSONB NOT NULL DEFAULT '[]',
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS surface_history (
	player_id BIGINT NOT NULL REFERENCES players(id),
	surface_id BIGINT NOT NULL REFERENCES surfaces(id),
	last_10_wins INT NOT NULL DEFAULT 0,
	last_10_losses INT NOT NULL DEFAULT 0,
	win_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
	total_wins INT NOT NULL DEFAULT 0,
	total_losses INT NOT NULL DEFAULT 0,
	last_updated TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (player_id, surface_id)
);

CREATE TABLE IF NOT EXISTS feature_configurations (
	id BIGSERIAL PRIMARY KEY,
	name TEXT UNIQUE NOT NULL,
	description TEXT,
	configuration JSONB NOT NULL,
	is_default BOOLEAN NOT NULL DEFAULT false,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS training_configurations (
	id BIGSERIAL PRIMARY KEY,
	name TEXT UNIQUE NOT NULL,
	description TEXT,
	train_split_ratio DOUBLE PRECISION NOT NULL DEFAULT 0.8,
	validation_split_ratio DOUBLE PRECISION NOT NULL DEFAULT 0.2,
	random_seed BIGINT NOT NULL DEFAULT 42,
	use_error_feedback BOOLEAN NOT NULL DEFAULT false,
	is_default BOOLEAN NOT NULL DEFAULT false
);

CREATE TABLE IF NOT EXISTS models (
	id BIGSERIAL PRIMARY KEY,
	model_name TEXT NOT NULL,
	model_type TEXT NOT NULL,
	model_version TEXT NOT NULL,
	training_configuration_id BIGINT REFERENCES training_configurations(id),
	feature_configuration_id BIGINT REFERENCES feature_configurations(id),
	hyperparameters JSONB,
	training_date TIMESTAMPTZ NOT NULL,
	validation_accuracy DOUBLE PRECISION NOT NULL,
	validation_metrics JSONB,
	model_file_path TEXT NOT NULL,
	feature_columns JSONB NOT NULL,
	feature_importance JSONB,
	is_active BOOLEAN NOT NULL DEFAULT false,
	use_error_feedback BOOLEAN NOT NULL DEFAULT false
);
CREATE INDEX IF NOT EXISTS idx_models_active ON models (is_active) WHERE is_active;

CREATE TABLE IF NOT EXISTS predictions (
	id BIGSERIAL PRIMARY KEY,
	model_id BIGINT NOT NULL REFERENCES models(id),
	match_date DATE NOT NULL,
	tournament_id BIGINT NOT NULL REFERENCES tournaments(id),
	player_1_id BIGINT NOT NULL REFERENCES players(id),
	player_2_id BIGINT NOT NULL REFERENCES players(id),
	predicted_winner_id BIGINT NOT NULL REFERENCES players(id),
	predicted_total_sets INT NOT NULL,
	predicted_total_games INT NOT NULL,
	winner_probability DOUBLE PRECISION NOT NULL,
	confidence_score DOUBLE PRECISION NOT NULL,
	prediction_timestamp TIMESTAMPTZ NOT NULL,
	actual_winner_id BIGINT REFERENCES players(id),
	actual_total_sets INT,
	actual_total_games INT,
	UNIQUE (model_id, match_date, player_1_id, player_2_id)
);
CREATE INDEX IF NOT EXISTS idx_predictions_date ON predictions (match_date);

CREATE TABLE IF NOT EXISTS prediction_errors (
	id BIGSERIAL PRIMARY KEY,
	prediction_id BIGINT NOT NULL REFERENCES predictions(id),
	model_id BIGINT NOT NULL REFERENCES models(id),
	match_id BIGINT NOT NULL REFERENCES matches(id),
	match_date DATE NOT NULL,
	player_1_id BIGINT NOT NULL REFERENCES players(id),
	player_2_id BIGINT NOT NULL REFERENCES players(id),
	winner_correct BOOLEAN NOT NULL,
	sets_error INT NOT NULL DEFAULT 0,
	games_error INT NOT NULL DEFAULT 0,
	player_1_rank INT,
	player_2_rank INT,
	any_top_10 BOOLEAN NOT NULL DEFAULT false,
	any_top_20 BOOLEAN NOT NULL DEFAULT false,
	any_top_50 BOOLEAN NOT NULL DEFAULT false,
	any_top_100 BOOLEAN NOT NULL DEFAULT false,
	both_top_10 BOOLEAN NOT NULL DEFAULT false,
	both_top_20 BOOLEAN NOT NULL DEFAULT false,
	both_top_50 BOOLEAN NOT NULL DEFAULT false,
	both_top_100 BOOLEAN NOT NULL DEFAULT false,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_prediction_errors_model_date ON prediction_errors (model_id, match_date);

CREATE TABLE IF NOT EXISTS error_metrics (
	id BIGSERIAL PRIMARY KEY,
	model_id BIGINT NOT NULL REFERENCES models(id),
	period TEXT NOT NULL,
	start_date DATE NOT NULL,
	end_date DATE NOT NULL,
	total_predictions INT NOT NULL,
	correct_winners INT NOT NULL,
	accuracy DOUBLE PRECISION NOT NULL,
	avg_sets_error DOUBLE PRECISION NOT NULL,
	avg_games_error DOUBLE PRECISION NOT NULL,
	accuracy_top_10 DOUBLE PRECISION NOT NULL DEFAULT 0,
	accuracy_top_20 DOUBLE PRECISION NOT NULL DEFAULT 0,
	accuracy_top_50 DOUBLE PRECISION NOT NULL DEFAULT 0,
	accuracy_top_100 DOUBLE PRECISION NOT NULL DEFAULT 0,
	accuracy_both_top_10 DOUBLE PRECISION NOT NULL DEFAULT 0,
	accuracy_both_top_20 DOUBLE PRECISION NOT NULL DEFAULT 0,
	accuracy_both_top_50 DOUBLE PRECISION NOT NULL DEFAULT 0,
	accuracy_both_top_100 DOUBLE PRECISION NOT NULL DEFAULT 0,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (model_id, period, end_date)
);

CREATE TABLE IF NOT EXISTS betting_odds (
	id BIGSERIAL PRIMARY KEY,
	match_date DATE NOT NULL,
	tournament_id BIGINT NOT NULL REFERENCES tournaments(id),
	player_1_id BIGINT NOT NULL REFERENCES players(id),
	player_2_id BIGINT NOT NULL REFERENCES players(id),
	bookmaker_name TEXT NOT NULL,
	player_1_odds DOUBLE PRECISION NOT NULL,
	player_2_odds DOUBLE PRECISION NOT NULL,
	fetched_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (match_date, tournament_id, player_1_id, player_2_id, bookmaker_name)
);
`

var defaultSurfaces = []string{"Hard", "Clay", "Grass", "Carpet"}
var defaultCourtTypes = []string{"Indoor", "Outdoor"}
var defaultRounds = []string{
	"1st Round", "2nd Round", "3rd Round", "4th Round",
	"Round Robin", "Quarterfinals", "Semifinals", "The Final",
}

// Init applies the schema and seeds the reference tables and default
// configurations. Safe to run repeatedly.
func (s *Store) Init(ctx context.Context, defaultWeights map[string]float64) error {
	if _, err := s.pg.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	for _, name := range defaultSurfaces {
		if _, err := s.pg.Exec(ctx,
			`INSERT INTO surfaces (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name); err != nil {
			return fmt.Errorf("seed surface %q: %w", name, err)
		}
	}
	for _, name := range defaultCourtTypes {
		if _, err := s.pg.Exec(ctx,
			`INSERT INTO court_types (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name); err != nil {
			return fmt.Errorf("seed court type %q: %w", name, err)
		}
	}
	for _, name := range defaultRounds {
		if _, err := s.pg.Exec(ctx,
			`INSERT INTO rounds (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name); err != nil {
			return fmt.Errorf("seed round %q: %w", name, err)
		}
	}

	weightsJSON, err := json.Marshal(defaultWeights)
	if err != nil {
		return fmt.Errorf("encode default weights: %w", err)
	}
	if _, err := s.pg.Exec(ctx, `
		INSERT INTO feature_configurations (name, description, configuration, is_default)
		VALUES ($1, $2, $3, true)
		ON CONFLICT (name) DO NOTHING`,
		"default_weights_v1", "Default equal weights for all features", weightsJSON); err != nil {
		return fmt.Errorf("seed feature configuration: %w", err)
	}

	if _, err := s.pg.Exec(ctx, `
		INSERT INTO training_configurations
		(name, description, train_split_ratio, validation_split_ratio, random_seed, is_default)
		VALUES ($1, $2, 0.8, 0.2, 42, true)
		ON CONFLICT (name) DO NOTHING`,
		"default_training_v1", "Default 80/20 train/validation split"); err != nil {
		return fmt.Errorf("seed training configuration: %w", err)
	}

	return nil
}
