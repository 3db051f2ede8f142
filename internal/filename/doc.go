// Package filename turns track metadata into safe, collision-free file
// names.
//
// BuildCandidate and Sanitize are pure. ResolveUnique only probes the
// filesystem and never creates anything, so two resolvers racing on the same
// directory can pick the same name; callers that need a hard guarantee use
// Reserve, which serializes on a lock file and creates the winner with
// O_EXCL.
package filename
