/*
Package domain contains the core domain models and the progress state machine of
the intake wizard.

It defines the fixed, totally ordered step sequence, the applicant's record, the
partial writes (patches) applied to it, and the closed sets of answer values. This
package is kept pure and free of external dependencies like I/O or persistence,
following Hexagonal Architecture principles.

# Key Entities

  - Step: one stage of the wizard (age, gender, preferences, review).
  - Retreat: the tagged result of going back, either a step or an exit.
  - Record: the persisted intake of one applicant.
  - Patch: the subset of fields a single write carries.
  - Field: the answer a step collects, with its accepted options.
*/
package domain
