// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file provides the depth-first traversal of an extension.
//
// The traversal order is part of the contract: callers that stop on the first
// match rely on it to break ties between constructs that share a name.
//
//  1. Each configuration, followed by its parameter groups and parameters,
//     then its operations, sources and connection providers (each followed by
//     its own groups and parameters).
//  2. The extension's own operations, sources and connection providers.
//  3. The extension's structural types, each followed by its fields.

package metamodel

// Visitor is called for every construct in traversal order. Returning false
// stops the walk.
type Visitor func(Construct) bool

// Walk visits every construct of the extension depth-first. It reports
// whether the walk ran to completion.
func Walk(ext *Extension, visit Visitor) bool {
	if ext == nil {
		return true
	}
	w := walker{visit: visit}

	for _, cfg := range ext.Configurations {
		if !w.parameterized(cfg) {
			return false
		}
		if !w.components(cfg.Operations, cfg.Sources, cfg.ConnectionProviders) {
			return false
		}
	}

	if !w.components(ext.Operations, ext.Sources, ext.ConnectionProviders) {
		return false
	}

	for _, t := range ext.Types {
		if !visit(t) {
			return false
		}
		for _, f := range t.Fields {
			if !visit(f) {
				return false
			}
		}
	}
	return true
}

// Find returns the first construct, in traversal order, for which match
// returns true. The walk stops at that construct.
func Find(ext *Extension, match func(Construct) bool) (Construct, bool) {
	var found Construct
	Walk(ext, func(c Construct) bool {
		if match(c) {
			found = c
			return false
		}
		return true
	})
	return found, found != nil
}

type walker struct {
	visit Visitor
}

func (w walker) parameterized(c Parameterized) bool {
	if !w.visit(c) {
		return false
	}
	for _, g := range c.ParameterGroups() {
		if !w.visit(g) {
			return false
		}
		for _, p := range g.Parameters {
			if !w.visit(p) {
				return false
			}
		}
	}
	return true
}

func (w walker) components(ops []*Operation, sources []*Source, providers []*ConnectionProvider) bool {
	for _, op := range ops {
		if !w.parameterized(op) {
			return false
		}
	}
	for _, src := range sources {
		if !w.parameterized(src) {
			return false
		}
	}
	for _, cp := range providers {
		if !w.parameterized(cp) {
			return false
		}
	}
	return true
}
