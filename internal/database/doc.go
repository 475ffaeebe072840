// Package database provides PostgreSQL connection helpers.
package database
