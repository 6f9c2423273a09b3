// Package secret provides a small, dependency-light secret resolution layer
// for the configuration tree's string leaves.
//
// It supports:
//   - Strict environment expansion (see ExpandEnvStrict)
//   - Pluggable secret providers (see Provider + Registry)
//   - Resolving secret references in configuration values (see Resolver)
//
// References use the prefix "secretref:":
//   - Full value:  secretref:bws:project/dotenv/key/REDIS_PASSWORD
//   - Inline use:  Bearer secretref:bws:project/dotenv/key/SEMANTIC_SEARCH_KEY
package secret
