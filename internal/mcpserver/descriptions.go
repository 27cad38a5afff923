package mcpserver

// Tool descriptions with interpretation guidance for LLMs.
// Each description explains what the tool does, when to use it,
// how to interpret results, and key thresholds.

func describeBuildGraph() string {
	return `Builds a project-wide symbol graph of exports, imports, and re-export chains for TypeScript, JavaScript, and Svelte sources.

USE WHEN:
- Starting a session against a new project (warms the cache other tools reuse)
- Checking how large or parseable a codebase is before deeper queries
- Verifying that tsconfig path aliases were picked up

INTERPRETING RESULTS:
- parse_errors > 0: some files contributed no facts; results elsewhere are best-effort
- reexport_count is high in barrel-heavy codebases; dead-export queries follow those chains
- fingerprint is stable across rebuilds of an unchanged tree; a changed fingerprint means the tree changed

METRICS RETURNED:
- files_scanned, parse_errors, total_exports, total_imports
- unique_exported_symbols, unique_imported_symbols, reexport_count
- fingerprint plus the active path alias table`
}

func describeDeadExports() string {
	return `Finds exported symbols that no other file imports, directly or through a barrel re-export chain.

USE WHEN:
- Cleaning up a module before refactoring
- Verifying a suspected-unused export is actually safe to delete
- Auditing an entire project for dead public surface

INTERPRETING RESULTS:
- With "module" set the check is scope-local and AST-based: one module's exports against every importer in scope
- Without "module" the cached symbol graph answers for every export in the project
- Re-exports themselves are never reported; only original definitions can be dead
- A namespace import from a barrel keeps everything the barrel forwards alive

METRICS RETURNED:
- dead_exports: name, file, line, and source context per dead export
- total_exports checked, files scanned, files skipped on parse errors

Note: dynamic imports and string-built specifiers are invisible to the resolver and can cause false positives.`
}

func describeReachability() string {
	return `Classifies every module as an entry point, reachable from one, or unreachable, by BFS over the import graph.

USE WHEN:
- Finding orphaned modules after a feature removal
- Checking which entry points actually pull a given file in
- Getting a shape summary of the import graph

INTERPRETING RESULTS:
- entry_point: detected from package.json main/bin/exports/scripts, wrangler.toml, framework route conventions, test files, or index/main conventions
- reachable: imported transitively from at least one entry point; reached_from lists which, distance is the hop count
- unreachable: no entry point imports it, distance -1; candidate for deletion or a missed entry point
- density and avg_degree describe how interconnected the module graph is

METRICS RETURNED:
- entry_points with detection kind and description
- per-module status, reached_from, distance
- totals per class, skipped files, graph metrics (nodes, edges, density, avg_degree)`
}

func describeClones() string {
	return `Detects function-level clones: same-named functions duplicated across files, and optionally near-duplicate functions inside one file.

USE WHEN:
- Hunting copy-paste duplication before a refactor
- Checking whether two parallel implementations have drifted
- Looking for extraction candidates inside a large file

INTERPRETING RESULTS:
- similarity 1.0: bodies identical after normalization (comments and whitespace stripped)
- similarity >= 0.8 across files: same name, near-same body; consolidate into one definition
- intra-file pairs (>= 0.85, different names) include a suggested_extraction name for the common helper
- test files are excluded by default so fixture repetition does not flood the report

METRICS RETURNED:
- clones: function name, both files, similarity, both function snapshots
- intra_file_clones: file, both names, lines, similarity, suggested extraction name
- summary: counts, functions compared, files scanned, average similarity`
}

func describeUsages() string {
	return `Counts word-boundary occurrences of a symbol across the project and classifies each as a definition, a type-only mention, or a runtime usage.

USE WHEN:
- Deciding whether an export earns its existence before deleting it
- Distinguishing a type that is only referenced in annotations from one used at runtime
- Checking usage across polyglot neighbors (the scan also covers .rs, .py, and .go files)

INTERPRETING RESULTS:
- definition_count + actual_usage_count + type_only_count always equals usage_count
- exported_but_unused true: defined somewhere, mentioned nowhere else; strong deletion candidate
- earns_existence false: fewer non-definition mentions than the configured minimum
- type-only mentions count toward existence; a type doing annotation work is not dead

METRICS RETURNED:
- per-occurrence file, line, column, context line, classification
- aggregate counts per classification, skipped files
- earns_existence and exported_but_unused verdicts`
}
