// Package model defines the core data types shared by the decode, sanitize,
// logbook, merge, and ops packages: updates, messages, actions, logs, and
// logbooks, plus the parse-error taxonomy.
package model
