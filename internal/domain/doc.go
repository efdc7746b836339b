// Package domain contains the core entities and value objects of the task list:
// the Task itself, the filters used to derive views of the collection and the
// summary counts shown alongside it. It is independent of any storage or
// presentation mechanism.
package domain
