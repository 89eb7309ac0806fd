/*
Package tracescope ingests binary capture files of an operating system's
tracing subsystems and turns them into a time-indexed hierarchical data model.

Overview

Capture files (display compositor state, window manager state, accessibility
snapshots and others) are decoded by package parser into entries carrying one
timestamp per time domain. Each entry is normalized into a property tree
(package propertytree), augmented by an ordered pipeline of derived-property
operations (package operations). Spatial entities are extracted into
rectangles ordered front to back (packages hierarchy and rects), while package
timeline maintains a cursor and a zoom window over all loaded traces.

Package traces glues these steps together for a set of capture files.

This root package holds the error taxonomy shared by all sub-packages.
Clients check errors with errors.Is:

   if errors.Is(err, tracescope.ErrFormat) {
       // not a capture file we understand
   }

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package tracescope
