// Package types defines the capability contracts the patching pipeline
// relies on (Record, ModContext, LinkCache), the record types of a load
// order (Quest, QuestAlias, Condition, FormList), the Mod container with its
// keyed record groups, and the standard errors shared by every package.
package types
