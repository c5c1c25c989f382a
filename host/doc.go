/*
Package host provides execution environment for the LUNA ledger implemented
by the ledger package.

Host keeps the ledger together with the records of other contracts in the
neo-go key-value storage (in-memory, LevelDB or BoltDB one, see dbconfig).
Each Transaction runs in isolation on top of the storage cache: its writes
reach the persistent storage only if the execution ends in HALT state. Any
panic during execution results in FAULT and the cache is discarded.
Transactions are executed one by one.

Host resolves the external collaborators of the ledger:
  - witnesses are secp256r1 signatures of the Transaction signed part;
  - calling script hash is set by the Transaction and must reference a
    registered contract;
  - accounts are payable if there is no contract with the same hash or if
    the contract declares ledger.Payable property;
  - Transfer events are returned as notifications of the ledger contract;
  - code migration replaces the ledger contract record keeping its storage.

Host doesn't execute contract scripts, the ledger logic is always provided
by the ledger package.
*/
package host
