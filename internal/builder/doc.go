/*
Package builder constructs a validated pipeline graph, either from a persisted
pipeline description or from stage objects assembled interactively by an
editor.

The construction is a multi-phase process and is all-or-nothing: any failure
returns a *GraphError and no graph.

 1. Record Validation: every description is checked for a primary input, a
    unique name, a registered kind and parameters the filter accepts. Each
    valid record is instantiated through the filter registry. Interactively
    assembled stages skip this phase.

 2. Dependency Linking: the stages are added to a fresh stage store, after
    the two sources, and every connected input becomes an edge in a
    dag.Tracker.

 3. Validation: the tracker's cycle detection runs first, then every input
    chain is followed back to a source stage. A chain that dead-ends fails the
    build with ErrDisconnectedGraph naming the stage that holds the dangling
    reference.

 4. Placement: the layout pass assigns every stage a grid cell and the
    execution order is derived from the grid.
*/
package builder
