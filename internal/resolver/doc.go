// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package resolver binds application elements to extension constructs.
//
// # Algorithm
//
// Resolving an element runs these steps:
//
//  1. Extension selection: the extension whose namespace URI equals the
//     element's namespace owns it. No owner means no result.
//
//  2. Construct matching: the owner's configurations, operations, sources and
//     connection providers are walked in declaration order (see
//     metamodel.Walk). The first construct whose descriptor identifies the
//     element wins and the walk stops.
//
//  3. Structural type fallback: failing that, the first declared type whose
//     descriptor identifies the element is returned as a leaf.
//
//  4. Parameter binding: inline groups are bound against their own child
//     element, all other parameters against the matched element. Parameters
//     are attributes, child elements, or wrappers around a single
//     polymorphic element that is itself resolved from step 1.
//
//  5. Connection provider: a configuration gets at most one, the first
//     declared provider that matches one of its inner elements.
//
// Anything that does not match is simply left out of the result; unmatched
// input is never an error. A construct the syntax resolver cannot describe is
// logged and its branch omitted, keeping the rest of the tree usable.
//
// # Concurrency
//
// A Resolver only reads the extensions and its per-extension syntax
// resolvers, both fixed at construction. Resolve may be called from many
// goroutines at once. If the extensions change, build a new Resolver.
package resolver
