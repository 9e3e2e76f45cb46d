// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package metamodel describes extensions: the declarative constructs an
// application element can instantiate.
//
// # Core Concepts
//
//   - Extension: a named, namespaced bundle of constructs. Its namespace URI is
//     what ties a document element to the extension that owns it.
//
//   - Configuration, Operation, Source, ConnectionProvider: the parameterized
//     components of an extension. A configuration may nest its own operations,
//     sources and connection providers.
//
//   - ParameterGroup and Parameter: the inputs of a component. Groups flagged
//     ShowInline are written as a dedicated child element in documents.
//
//   - StructuralType: a named object type whose fields are parameters. Types
//     can be abstract, in which case parameters referring to them hold a
//     concrete subtype.
//
// The metamodel is plain data. It is loaded once from HCL manifests, then
// shared read-only by every resolution.
package metamodel
