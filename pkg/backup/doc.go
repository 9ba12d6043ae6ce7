/*
The backup package implements the one-way synchronization of a flat source
directory into a backup directory.

A pass works on two views of the filesystem:
 1. The source Snapshot -- every regular file directly inside the source
    directory, hashed up front.
 2. The backup Listing -- the names of the regular files directly inside the
    backup directory. Backup files are only hashed when a file with the same
    name exists in the source, and the hash is computed at the moment the
    decision is made.

Each source file is then created, updated, or left alone in the backup, and
every backup file without a source counterpart is removed. Whether two files
are the same is decided by their content digest alone. Modification times
and sizes are ignored.

Every mutation is appended to the journal (the log file) and mirrored to the
console immediately after it's performed. Subdirectories are never
descended into.
*/
package backup
