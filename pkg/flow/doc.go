// Package flow contains the conversation-facing surface of the drilldown
// engine: the Conversation facade handed to transitions, the Keyboard
// renderer that maintains the single live options message, and the
// Transition protocol with its built-in Menu, Save and NoOp behaviors.
//
// A transition is a way to move to and from a state. Enter tells the engine
// what setup the state needs (and whether the move is accepted at all);
// Leave tells it how to interpret the user input that arrives while the
// state is active.
package flow
