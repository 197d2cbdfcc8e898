/*
go-posecoach gives real-time feedback on body posture from per frame pose
landmarks, as produced by a 33 point pose estimation model.

A frame of landmarks (JointSet) flows through the following packages:

  - features turns the landmarks into a 114 value descriptor
  - knn is an incrementally trained weighted k-nearest neighbour classifier
    predicting which step of a motion the user is performing
  - feedback scores posture correctness against geometric checkpoints, using
    a short landmark history kept by the history package
  - session turns the stream of classified labels into progress, either a
    hold timer or repeated sequence cycles, and emits milestone events
  - motion holds the static catalog of supported motions

The coach package wires these together with persistence (store) and a
practice journal.  See the example subdirectory for usage.
*/
package posecoach
