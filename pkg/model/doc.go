// Package model defines the plain data the request-construction pipeline
// operates on: header declarations, the field snapshot taken at submission
// time, submitter overrides and the resolved request descriptor handed to the
// transport. Nothing here touches a document tree or the network; host
// adapters (pkg/host, pkg/formspec) translate their own state into these
// types before calling the builder or the submission controller.
//
// Values are passed around by value. Types holding slices expose Clone so
// callers that hand a value to third parties (submit listeners, transports)
// can do so without sharing backing arrays.
package model
