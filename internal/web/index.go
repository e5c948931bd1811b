package web

// Mint desk page: live prices, a quote calculator and the receipt ledger.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>Silvermint</title>
  <link rel="preconnect" href="https://fonts.googleapis.com">
  <link rel="preconnect" href="https://fonts.gstatic.com" crossorigin>
  <link href="https://fonts.googleapis.com/css2?family=Press+Start+2P&family=Space+Mono:wght@400;700&display=swap" rel="stylesheet">
  <style>
    :root {
      --bg:#ffffff;
      --ink:#111111;
      --ink-mid:#4d4d4d;
      --ink-soft:#9c9c9c;
      --panel:#f6f6f6;
    }
    * { box-sizing:border-box; }
    body {
      margin:0;
      min-height:100vh;
      display:flex;
      align-items:center;
      justify-content:center;
      padding:2rem;
      background:var(--bg);
      color:var(--ink);
      font-family:'Space Mono','JetBrains Mono',monospace;
    }
    body::before {
      content:'';
      position:fixed;
      inset:0;
      background:
        linear-gradient(90deg, rgba(0,0,0,.02) 1px, transparent 1px),
        linear-gradient(rgba(0,0,0,.02) 1px, transparent 1px);
      background-size:12px 12px;
      pointer-events:none;
    }
    #app {
      width:min(1100px, 96vw);
      background:var(--panel);
      border:3px solid var(--ink);
      padding:2rem;
      position:relative;
      box-shadow:12px 12px 0 rgba(0,0,0,.15);
      display:grid;
      grid-template-columns:1fr 360px;
      gap:2rem;
    }
    #app::after {
      content:'';
      position:absolute;
      inset:8px;
      border:1px dashed rgba(0,0,0,.15);
      pointer-events:none;
    }
    .main { display:flex; flex-direction:column; gap:1.5rem; }
    header { display:flex; justify-content:space-between; align-items:flex-start; gap:1rem; }
    .eyebrow {
      font-family:'Press Start 2P','Space Mono',monospace;
      font-size:.55rem;
      text-transform:uppercase;
      letter-spacing:.2em;
      margin:0;
    }
    .status {
      font-size:.65rem;
      text-transform:uppercase;
      letter-spacing:.1em;
      border:2px solid var(--ink);
      padding:.4rem .9rem;
      background:#ffffff;
      box-shadow:4px 4px 0 rgba(0,0,0,.15);
    }
    .price-grid {
      display:grid;
      grid-template-columns:repeat(auto-fit, minmax(180px, 1fr));
      gap:1rem;
    }
    .price-card {
      border:3px solid var(--ink);
      padding:1.2rem;
      background:#fff;
      box-shadow:6px 6px 0 rgba(0,0,0,.12);
    }
    .price-card .label {
      font-size:.6rem;
      text-transform:uppercase;
      letter-spacing:.2em;
      color:var(--ink-mid);
    }
    .price-card .value {
      margin-top:.7rem;
      font-size:1.5rem;
      font-weight:700;
      letter-spacing:.05em;
    }
    .mint-panel {
      border:3px solid var(--ink);
      padding:1.5rem;
      background:#fff;
      box-shadow:8px 8px 0 rgba(0,0,0,.15);
      display:flex;
      flex-direction:column;
      gap:1rem;
    }
    .mint-panel input {
      font-family:inherit;
      font-size:1.1rem;
      padding:.6rem;
      border:2px solid var(--ink);
      flex:1;
      min-width:0;
    }
    .row { display:flex; gap:.8rem; flex-wrap:wrap; align-items:center; }
    button {
      font-family:inherit;
      font-size:.75rem;
      text-transform:uppercase;
      letter-spacing:.1em;
      padding:.6rem 1.2rem;
      border:2px solid var(--ink);
      background:#fff;
      cursor:pointer;
      box-shadow:4px 4px 0 rgba(0,0,0,.2);
    }
    button:active { transform:translate(2px,2px); box-shadow:2px 2px 0 rgba(0,0,0,.2); }
    button.primary { background:var(--ink); color:#fff; }
    button.toggled { background:var(--ink); color:#fff; }
    .quote-line { font-size:.8rem; color:var(--ink-mid); }
    .ledger {
      display:flex;
      flex-direction:column;
      gap:1rem;
      max-height:calc(100vh - 8rem);
      overflow-y:auto;
    }
    .ledger-title {
      font-family:'Press Start 2P','Space Mono',monospace;
      font-size:.6rem;
      text-transform:uppercase;
      letter-spacing:.15em;
      margin:0 0 .4rem 0;
      padding-bottom:.8rem;
      border-bottom:2px solid var(--ink);
    }
    .receipt {
      border:2px solid var(--ink);
      padding:1rem;
      background:#fff;
      box-shadow:4px 4px 0 rgba(0,0,0,.12);
      font-size:.7rem;
      line-height:1.5;
    }
    .receipt .serial { font-weight:700; letter-spacing:.05em; }
    .receipt .when { color:var(--ink-mid); font-size:.6rem; }
    .totals { font-size:.65rem; color:var(--ink-mid); letter-spacing:.08em; }
    .empty-state {
      border:2px dashed var(--ink-soft);
      padding:2rem;
      text-align:center;
      font-size:.75rem;
      letter-spacing:.12em;
      text-transform:uppercase;
      color:var(--ink-mid);
    }
    .error { color:#d7263d; font-size:.7rem; min-height:1em; }
    @media (max-width:760px) {
      body { padding:1rem; }
      #app { padding:1.2rem; grid-template-columns:1fr; }
    }
  </style>
</head>
<body>
  <div id="app">
    <div class="main">
      <header>
        <p class="eyebrow">silvermint desk</p>
        <div id="sse-status" class="status">Connecting…</div>
      </header>
      <section class="price-grid">
        <div class="price-card">
          <div class="label">Spot / oz</div>
          <div class="value" id="spotPrice">—</div>
        </div>
        <div class="price-card">
          <div class="label">Mint / oz</div>
          <div class="value" id="mintPrice">—</div>
        </div>
        <div class="price-card">
          <div class="label">ETH</div>
          <div class="value" id="cryptoPrice">—</div>
        </div>
      </section>
      <section class="mint-panel">
        <div class="row">
          <button id="cur-usd" class="toggled">USD</button>
          <button id="cur-aud">AUD</button>
          <span style="flex:1"></span>
          <button id="refreshBtn">Refresh</button>
        </div>
        <div class="row">
          <input id="amount" type="number" min="1" step="1" placeholder="Tokens to mint (100 = 1 oz)" />
          <button id="maxBtn">Max</button>
        </div>
        <div class="quote-line" id="quoteLine">Enter an amount to see the price.</div>
        <div class="row">
          <button id="connectBtn">Connect wallet</button>
          <button id="mintBtn" class="primary">Mint</button>
        </div>
        <div class="quote-line" id="walletLine">No wallet connected.</div>
        <div class="error" id="errorLine"></div>
      </section>
    </div>
    <aside class="ledger">
      <h3 class="ledger-title">Receipts</h3>
      <div class="totals" id="totalsLine"></div>
      <div id="receipts"><div class="empty-state">No mints yet</div></div>
    </aside>
  </div>
<script>
const statusEl = document.getElementById('sse-status');
const spotEl = document.getElementById('spotPrice');
const mintEl = document.getElementById('mintPrice');
const cryptoEl = document.getElementById('cryptoPrice');
const amountEl = document.getElementById('amount');
const quoteEl = document.getElementById('quoteLine');
const walletEl = document.getElementById('walletLine');
const errorEl = document.getElementById('errorLine');
const receiptsEl = document.getElementById('receipts');
const totalsEl = document.getElementById('totalsLine');
const curButtons = { usd: document.getElementById('cur-usd'), aud: document.getElementById('cur-aud') };
const connectBtn = document.getElementById('connectBtn');
let connected = false;

function shortAddress(addr){
  if(!addr){ return ''; }
  return addr.slice(0, 6) + '…' + addr.slice(-4);
}

function renderState(state){
  spotEl.textContent = state.spot_price;
  mintEl.textContent = state.mint_price;
  cryptoEl.textContent = state.crypto_price;
  statusEl.textContent = state.priced ? ('Priced ' + (state.resolved_at || '')) : 'Prices unavailable';
  walletEl.textContent = state.address ? ('Wallet ' + shortAddress(state.address)) : 'No wallet connected.';
  connected = !!state.address;
  connectBtn.textContent = connected ? 'Disconnect' : 'Connect wallet';

  for(const key of Object.keys(curButtons)){
    curButtons[key].classList.toggle('toggled', (state.currency || '').toLowerCase() === key);
  }

  receiptsEl.innerHTML = '';
  if(!state.records || state.records.length === 0){
    const empty = document.createElement('div');
    empty.className = 'empty-state';
    empty.textContent = 'No mints yet';
    receiptsEl.appendChild(empty);
    totalsEl.textContent = '';
    return;
  }
  totalsEl.textContent = 'Total ' + state.total_ounces + ' oz / ' + state.total_fiat;
  for(const rec of state.records){
    const card = document.createElement('div');
    card.className = 'receipt';
    card.innerHTML =
      '<div class="serial"></div>' +
      '<div>' + rec.tokens + ' tokens · ' + rec.ounces + ' oz</div>' +
      '<div>' + rec.fiat + ' · ' + rec.crypto + '</div>' +
      '<div class="when">' + rec.ts + '</div>';
    card.querySelector('.serial').textContent = rec.serial;
    receiptsEl.appendChild(card);
  }
}

async function post(path, body){
  errorEl.textContent = '';
  const res = await fetch(path, {
    method:'POST',
    headers:{ 'Content-Type':'application/json' },
    body: body ? JSON.stringify(body) : '{}'
  });
  const payload = await res.json().catch(() => ({}));
  if(!res.ok){
    throw new Error(payload.error || ('request failed: ' + res.status));
  }
  return payload;
}

let quoteTimer = null;
amountEl.addEventListener('input', () => {
  clearTimeout(quoteTimer);
  quoteTimer = setTimeout(async () => {
    const amount = amountEl.value;
    if(!amount){
      quoteEl.textContent = 'Enter an amount to see the price.';
      return;
    }
    try{
      const q = await post('/api/quote', { amount: amount });
      quoteEl.textContent = q.ounces + ' oz · ' + q.fiat + ' · ' + q.crypto;
    }catch(err){
      quoteEl.textContent = err.message;
    }
  }, 250);
});

document.getElementById('maxBtn').addEventListener('click', () => {
  amountEl.value = 1000;
  amountEl.dispatchEvent(new Event('input'));
});

for(const key of Object.keys(curButtons)){
  curButtons[key].addEventListener('click', async () => {
    try{ renderState(await post('/api/currency', { currency: key })); }
    catch(err){ errorEl.textContent = err.message; }
  });
}

document.getElementById('refreshBtn').addEventListener('click', async () => {
  try{ renderState(await post('/api/refresh')); }
  catch(err){ errorEl.textContent = err.message; }
});

connectBtn.addEventListener('click', async () => {
  try{ renderState(await post(connected ? '/api/disconnect' : '/api/connect')); }
  catch(err){ errorEl.textContent = err.message; }
});

document.getElementById('mintBtn').addEventListener('click', async () => {
  const amount = amountEl.value;
  if(!amount){
    errorEl.textContent = 'enter an amount first';
    return;
  }
  try{
    const result = await post('/api/mint', { amount: amount });
    errorEl.textContent = '';
    quoteEl.textContent = 'Minted ' + result.record.serial + ' (tx ' + shortAddress(result.tx_hash) + ')';
  }catch(err){
    errorEl.textContent = err.message;
  }
});

function connectSSE(){
  const source = new EventSource('/stream');
  source.addEventListener('state', (event) => {
    try{ renderState(JSON.parse(event.data)); }
    catch(err){ console.error('state parse', err); }
  });
  source.addEventListener('error', () => {
    statusEl.textContent = 'Reconnecting…';
    source.close();
    setTimeout(connectSSE, 2000);
  });
}

connectSSE();
</script>
</body>
</html>`
