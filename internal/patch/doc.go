// Package patch applies single atomic mutations to the live task tree.
package patch
