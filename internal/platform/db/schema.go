package db

const postgresSchema = `
CREATE TABLE IF NOT EXISTS fornecedores (
	id                 BIGSERIAL PRIMARY KEY,
	nome               TEXT NOT NULL,
	contato            TEXT NOT NULL DEFAULT '',
	digisac_contact_id TEXT,
	created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS produtos (
	id            BIGSERIAL PRIMARY KEY,
	nome          TEXT NOT NULL,
	preco         DOUBLE PRECISION CHECK (preco IS NULL OR preco >= 0),
	fornecedor_id BIGINT REFERENCES fornecedores(id),
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_produtos_fornecedor ON produtos(fornecedor_id);

CREATE TABLE IF NOT EXISTS fornecedor_produto (
	fornecedor_id BIGINT NOT NULL REFERENCES fornecedores(id) ON DELETE CASCADE,
	produto_id    BIGINT NOT NULL REFERENCES produtos(id) ON DELETE CASCADE,
	PRIMARY KEY (fornecedor_id, produto_id)
);

CREATE TABLE IF NOT EXISTS pedidos (
	id            BIGSERIAL PRIMARY KEY,
	titulo        TEXT NOT NULL,
	descricao     TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL DEFAULT 'aberto',
	produto_id    BIGINT REFERENCES produtos(id) ON DELETE SET NULL,
	fornecedor_id BIGINT REFERENCES fornecedores(id) ON DELETE SET NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS mensagens_digisac (
	id               BIGSERIAL PRIMARY KEY,
	message_id       TEXT NOT NULL UNIQUE,
	event            TEXT NOT NULL,
	is_from_me       BOOLEAN NOT NULL DEFAULT FALSE,
	contact_id       TEXT NOT NULL DEFAULT '',
	thread_id        TEXT NOT NULL DEFAULT '',
	text             TEXT NOT NULL DEFAULT '',
	remote_timestamp TIMESTAMPTZ,
	payload          JSONB NOT NULL,
	received_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS fornecedores (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	nome               TEXT NOT NULL,
	contato            TEXT NOT NULL DEFAULT '',
	digisac_contact_id TEXT,
	created_at         DATETIME NOT NULL,
	updated_at         DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS produtos (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	nome          TEXT NOT NULL,
	preco         REAL CHECK (preco IS NULL OR preco >= 0),
	fornecedor_id INTEGER REFERENCES fornecedores(id),
	created_at    DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_produtos_fornecedor ON produtos(fornecedor_id);

CREATE TABLE IF NOT EXISTS fornecedor_produto (
	fornecedor_id INTEGER NOT NULL REFERENCES fornecedores(id) ON DELETE CASCADE,
	produto_id    INTEGER NOT NULL REFERENCES produtos(id) ON DELETE CASCADE,
	PRIMARY KEY (fornecedor_id, produto_id)
);

CREATE TABLE IF NOT EXISTS pedidos (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	titulo        TEXT NOT NULL,
	descricao     TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL DEFAULT 'aberto',
	produto_id    INTEGER REFERENCES produtos(id) ON DELETE SET NULL,
	fornecedor_id INTEGER REFERENCES fornecedores(id) ON DELETE SET NULL,
	created_at    DATETIME NOT NULL,
	updated_at    DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS mensagens_digisac (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	message_id       TEXT NOT NULL UNIQUE,
	event            TEXT NOT NULL,
	is_from_me       BOOLEAN NOT NULL DEFAULT 0,
	contact_id       TEXT NOT NULL DEFAULT '',
	thread_id        TEXT NOT NULL DEFAULT '',
	text             TEXT NOT NULL DEFAULT '',
	remote_timestamp DATETIME,
	payload          TEXT NOT NULL,
	received_at      DATETIME NOT NULL
);
`
