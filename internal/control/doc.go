// Package control turns dashboard actions into task-control requests.
package control
