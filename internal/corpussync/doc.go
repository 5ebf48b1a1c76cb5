// Package corpussync keeps the persisted question corpus in step with a
// directory of exam papers.
//
// A sync run locks the store, loads the corpus, resolves every existing
// record back to a file in the exam directory, extracts only the files that
// have no record yet and saves the whole corpus in one atomic write. A run
// that finds nothing new writes nothing, so repeated runs over an unchanged
// directory leave the store byte-for-byte identical.
//
// Failures are split three ways. A paper that cannot be rendered
// (SourceReadError) still gets an empty record and the run continues. A
// corpus that cannot be loaded (StoreReadError) is treated as empty. Only a
// failed save (StoreWriteError) fails the run.
package corpussync
