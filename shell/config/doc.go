// Package config provides the environment configuration of the circulation service and the database
// connection helpers for PostgreSQL.
//
// Load reads an optional .env file and the process environment into a Config. The factory functions
// create connection pools for the three supported drivers (pgx.Pool, sql.DB, sqlx.DB) with the same
// pool sizing, and OpenStore wires the selected one into a postgresengine.Store.
package config
