// Viametrica - Tourism Impact Analytics Engine
// Copyright 2026 Viametrica contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/viametrica/core

// Package models defines the serializable data structures shared between the
// PLS-SEM engine, the storage layer, and the HTTP API.
//
// The central type is ModelReport: the immutable snapshot produced by one
// analysis run. Its serialization shape is versioned (SchemaVersion) and is
// the sole contract consumed by downstream renderers, insight generation,
// and persistence. Reports are superseded by later runs, never mutated.
package models
